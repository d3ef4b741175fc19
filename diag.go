package xsl

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

type Severity int8

const (
	SevWarning Severity = 1 << iota
	SevError
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type Location struct {
	System string
	Line   int
	Column int
}

func (c Location) Zero() bool {
	return c == Location{}
}

func (c Location) String() string {
	if c.Zero() {
		return ""
	}
	pos := fmt.Sprintf("%d:%d", c.Line, c.Column)
	if c.System == "" {
		return pos
	}
	return fmt.Sprintf("%s:%s", c.System, pos)
}

type Diagnostic struct {
	Severity Severity
	Location Location
	Text     string
}

func (d Diagnostic) String() string {
	if d.Location.Zero() {
		return fmt.Sprintf("%s: %s", d.Severity, d.Text)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Location, d.Text)
}

// Sink collects the diagnostics raised during a single compile or
// execute call, in emission order. A sink is never shared between
// calls. Report never fails so collecting can not interrupt the
// engine while it reports.
type Sink struct {
	mu   sync.Mutex
	list []Diagnostic
}

func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, d)
}

func (s *Sink) Warningf(loc Location, format string, args ...any) {
	s.reportf(SevWarning, loc, format, args...)
}

func (s *Sink) Errorf(loc Location, format string, args ...any) {
	s.reportf(SevError, loc, format, args...)
}

func (s *Sink) Fatalf(loc Location, format string, args ...any) {
	s.reportf(SevFatal, loc, format, args...)
}

func (s *Sink) reportf(sev Severity, loc Location, format string, args ...any) {
	d := Diagnostic{
		Severity: sev,
		Location: loc,
		Text:     fmt.Sprintf(format, args...),
	}
	s.Report(d)
}

func (s *Sink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list) == 0
}

func (s *Sink) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Diagnostic, len(s.list))
	copy(list, s.list)
	return list
}

// Summary renders every collected diagnostic, one per line.
func (s *Sink) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var parts []string
	for i := range s.list {
		parts = append(parts, s.list[i].String())
	}
	return strings.Join(parts, "\n")
}

// Message is raised by an explicit instruction of the stylesheet
// while it runs. Messages are forwarded as they occur, never buffered.
type Message struct {
	Location Location
	Text     string
}

type Relay interface {
	Forward(Message)
}

func NoopRelay() Relay {
	return discardRelay{}
}

type discardRelay struct{}

func (_ discardRelay) Forward(_ Message) {}

// LogRelay forwards messages to the given logger. A nil logger uses
// the default one.
func LogRelay(logger *slog.Logger) Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return logRelay{
		logger: logger,
	}
}

type logRelay struct {
	logger *slog.Logger
}

func (r logRelay) Forward(msg Message) {
	if msg.Location.Zero() {
		r.logger.Info(msg.Text)
		return
	}
	r.logger.Info(msg.Text, "location", msg.Location.String())
}
