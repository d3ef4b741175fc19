package xsl

import (
	"bytes"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/midbel/codecs/xml"
)

// Transformer is anything able to turn one document into another.
// Implemented by Sheet and Chain.
type Transformer interface {
	Transform(doc *xml.Document) (*xml.Document, error)
	Apply(doc *xml.Document) (string, error)
	Generate(w io.Writer, doc *xml.Document) error
}

// Transform compiles the sheet, binds its parameters and executes it
// against the given document, returning the result tree.
func (s *Sheet) Transform(doc *xml.Document) (*xml.Document, error) {
	tr, sink, err := s.compile()
	if err != nil {
		return nil, err
	}
	defer tr.Close()
	res, err := tr.Execute(doc)
	if err != nil {
		return nil, s.executeError(sink, err)
	}
	s.trace()
	return res, nil
}

// Generate runs the transformation and serializes the result to w,
// honoring the output directives of the stylesheet.
func (s *Sheet) Generate(w io.Writer, doc *xml.Document) error {
	tr, sink, err := s.compile()
	if err != nil {
		return err
	}
	defer tr.Close()
	if err := tr.Generate(w, doc); err != nil {
		return s.executeError(sink, err)
	}
	s.trace()
	return nil
}

// Apply runs the transformation and returns the serialized result.
// The engine always produces utf-8; anything else is a defect and
// panics.
func (s *Sheet) Apply(doc *xml.Document) (string, error) {
	var buf bytes.Buffer
	if err := s.Generate(&buf, doc); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		panic("xsl: transformation result is not valid utf-8")
	}
	return buf.String(), nil
}

// compile runs the per call part of the pipeline: fresh sink, fresh
// engine compilation with the resolver attached, message redirection
// when the transform supports it, then parameter binding. Nothing is
// cached between calls.
func (s *Sheet) compile() (Transform, *Sink, error) {
	var (
		sink = NewSink()
		eng  = s.engine()
	)
	tr, err := eng.Compile(s, sink)
	if err != nil {
		cerr := CompileError{
			Engine:  eng.Name(),
			Summary: sink.Summary(),
			Err:     err,
		}
		return nil, nil, &cerr
	}
	if mc, ok := tr.(MessageChannel); ok {
		mc.RedirectMessages(s.messages())
	}
	for name, value := range s.params {
		tr.SetParam(name, value)
	}
	return tr, sink, nil
}

func (s *Sheet) executeError(sink *Sink, err error) error {
	xerr := ExecuteError{
		Engine:  s.engine().Name(),
		Summary: sink.Summary(),
		Err:     err,
	}
	return &xerr
}

func (s *Sheet) trace() {
	slog.Debug("document transformed", "engine", s.engine().Name())
}
