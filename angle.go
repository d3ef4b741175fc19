package xsl

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/midbel/codecs/xml"
	"github.com/midbel/codecs/xpath"
	"github.com/midbel/codecs/xslt"
)

// Loading a stylesheet re-keys the engine's package level instruction
// table with the xsl prefix of the sheet. Concurrent loads race on it
// so compilation is serialized process wide. The lock covers loading
// only, never the execution of a compiled transform.
var bootstrap sync.Mutex

type angleEngine struct{}

func (_ angleEngine) Name() string {
	return "angle"
}

// Compile stages the sheet on disk, as the engine compiles from files
// and resolves imports, includes and document() against a context
// directory. Directory backed resolvers hand over their directory;
// enumerable ones get their entries staged next to the body.
func (e angleEngine) Compile(sheet *Sheet, sink *Sink) (Transform, error) {
	dir, file, err := stage(sheet)
	if err != nil {
		return nil, err
	}
	bootstrap.Lock()
	inner, err := xslt.Load(file, contextDir(sheet, dir))
	bootstrap.Unlock()
	if err != nil {
		os.RemoveAll(dir)
		reportError(sink, SevFatal, err)
		return nil, err
	}
	repairModes(inner, sheet.Body())

	tracer := angleTracer{
		sink:  sink,
		relay: NoopRelay(),
	}
	inner.Tracer = &tracer
	tr := angleTransform{
		sheet:  inner,
		tracer: &tracer,
		dir:    dir,
	}
	return &tr, nil
}

type angleTransform struct {
	sheet  *xslt.Stylesheet
	tracer *angleTracer
	dir    string
}

func (t *angleTransform) SetParam(name string, value any) {
	t.sheet.SetParam(name, xpath.NewValueFromLiteral(value))
}

func (t *angleTransform) RedirectMessages(relay Relay) {
	t.tracer.relay = relay
}

func (t *angleTransform) Execute(doc *xml.Document) (*xml.Document, error) {
	res, err := t.sheet.Execute(doc)
	if err != nil {
		return nil, err
	}
	out, ok := res.(*xml.Document)
	if !ok {
		out = xml.NewDocument(res)
	}
	return out, nil
}

func (t *angleTransform) Generate(w io.Writer, doc *xml.Document) error {
	return t.sheet.Generate(w, doc)
}

// Close removes the staging directory. It can not run before the
// transform is done: the engine reads supplemental documents from it
// while executing.
func (t *angleTransform) Close() error {
	if t.dir == "" {
		return nil
	}
	return os.RemoveAll(t.dir)
}

// angleTracer bridges the engine's tracing surface: errors feed the
// sink, printed messages go to the relay.
type angleTracer struct {
	sink  *Sink
	relay Relay
}

func (_ *angleTracer) Enter(_ *xslt.Context) {}

func (_ *angleTracer) Leave(_ *xslt.Context) {}

func (t *angleTracer) Error(ctx *xslt.Context, err error) {
	var loc Location
	if ctx != nil && ctx.ContextNode != nil {
		loc.System = ctx.ContextNode.QualifiedName()
	}
	t.sink.Errorf(loc, "%s", err)
}

func (t *angleTracer) Println(msg string) {
	t.relay.Forward(Message{Text: msg})
}

const (
	bodyFile  = "_unit.xsl"
	xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>`
)

// withProlog prepends the xml prolog when the text lacks one. The
// engine parses staged files with the prolog mandatory while sheets
// are accepted without. The prolog shares the first line so locations
// reported on staged files keep their line numbers.
func withProlog(body string) []byte {
	if strings.HasPrefix(strings.TrimLeft(body, " \t\r\n"), "<?xml") {
		return []byte(body)
	}
	return []byte(xmlProlog + body)
}

// stage writes the body, and the entries of an enumerable resolver,
// into a fresh directory the engine can compile from.
func stage(sheet *Sheet) (string, string, error) {
	dir, err := os.MkdirTemp("", "xsl-*")
	if err != nil {
		return "", "", &ResourceError{
			Location: sheet.Base(),
			Err:      err,
		}
	}
	file := filepath.Join(dir, bodyFile)
	if err := os.WriteFile(file, withProlog(sheet.Body()), 0o644); err != nil {
		os.RemoveAll(dir)
		return "", "", &ResourceError{
			Location: sheet.Base(),
			Err:      err,
		}
	}
	if named, ok := sheet.Sources().(interface{ Names() []string }); ok {
		for _, name := range named.Names() {
			if !filepath.IsLocal(name) {
				continue
			}
			if err := stageEntry(dir, name, sheet); err != nil {
				os.RemoveAll(dir)
				return "", "", err
			}
		}
	}
	return dir, file, nil
}

func stageEntry(dir, name string, sheet *Sheet) error {
	rc, err := sheet.Sources().Resolve(name, sheet.Base())
	if err != nil {
		return err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	target := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, withProlog(string(body)), 0o644)
}

// contextDir picks the directory the engine resolves references in.
// Directory backed resolvers win; staged resolvers use the staging
// directory; with an empty resolver a base pointing at a real file
// resolves next to it.
func contextDir(sheet *Sheet, staged string) string {
	if src, ok := sheet.Sources().(interface{ ContextDir() string }); ok {
		return src.ContextDir()
	}
	if _, ok := sheet.Sources().(interface{ Names() []string }); ok {
		return staged
	}
	if fi, err := os.Stat(sheet.Base()); err == nil && !fi.IsDir() {
		return filepath.Dir(sheet.Base())
	}
	return staged
}

var noMatchModes = map[string]xslt.NoMatchMode{
	"deep-copy":      xslt.NoMatchDeepCopy,
	"shallow-copy":   xslt.NoMatchShallowCopy,
	"deep-skip":      xslt.NoMatchDeepSkip,
	"shallow-skip":   xslt.NoMatchShallowSkip,
	"text-only-copy": xslt.NoMatchTextOnlyCopy,
	"fail":           xslt.NoMatchFail,
}

// repairModes re-reads the xsl:mode declarations of the body and sets
// the declared on-no-match policy on the loaded modes. The engine
// parses the declarations but keeps the policy pinned to fail.
func repairModes(sheet *xslt.Stylesheet, body string) {
	p := xml.NewParser(strings.NewReader(body))
	p.OmitProlog = true
	doc, err := p.Parse()
	if err != nil {
		return
	}
	root, ok := doc.Root().(*xml.Element)
	if !ok {
		return
	}
	for _, n := range root.Nodes {
		elem, ok := n.(*xml.Element)
		if !ok || elem.LocalName() != "mode" {
			continue
		}
		var name, policy string
		for _, a := range elem.Attrs {
			switch a.Name {
			case "name":
				name = a.Value()
			case "on-no-match":
				policy = a.Value()
			default:
			}
		}
		mode, ok := noMatchModes[policy]
		if !ok {
			continue
		}
		ix := slices.IndexFunc(sheet.Modes, func(m *xslt.Mode) bool {
			return m.Name == name
		})
		if ix >= 0 {
			sheet.Modes[ix].NoMatch = mode
		}
	}
}

func reportError(sink *Sink, sev Severity, err error) {
	var perr xml.ParseError
	if errors.As(err, &perr) {
		loc := Location{
			Line:   perr.Line,
			Column: perr.Column,
		}
		sink.Report(Diagnostic{
			Severity: sev,
			Location: loc,
			Text:     perr.Message,
		})
		return
	}
	sink.Report(Diagnostic{
		Severity: sev,
		Text:     err.Error(),
	})
}
