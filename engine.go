package xsl

import (
	"io"

	"github.com/midbel/codecs/xml"
)

// Engine compiles a stylesheet into an executable transform. The
// resolver attached to the sheet must be honored while compiling so
// that relative imports and includes resolve through it. Diagnostics
// raised while compiling go to the given sink.
type Engine interface {
	Name() string
	Compile(sheet *Sheet, sink *Sink) (Transform, error)
}

// Transform is one compiled stylesheet ready to run. A transform is
// not reused across calls; Close releases whatever the compilation
// staged on disk.
type Transform interface {
	SetParam(name string, value any)
	Execute(doc *xml.Document) (*xml.Document, error)
	Generate(w io.Writer, doc *xml.Document) error
	Close() error
}

// MessageChannel is implemented by transforms whose engine emits
// stylesheet messages through a distinct channel. Engines without
// such channel simply do not implement it.
type MessageChannel interface {
	RedirectMessages(Relay)
}

// DefaultEngine returns the angle engine.
func DefaultEngine() Engine {
	return angleEngine{}
}
