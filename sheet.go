package xsl

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/midbel/codecs/xml"
)

// Sheet wraps one xslt stylesheet as an immutable value. The body is
// kept as raw text and compiled again on every call so that the
// resolver and the parameters bound at that moment are the ones the
// engine sees. Derivations share the body and copy the rest; a sheet
// and everything derived from it can be used concurrently.
type Sheet struct {
	body    string
	base    string
	sources Sources
	params  map[string]any
	relay   Relay
	eng     Engine
}

// New wraps the given stylesheet text with an empty resolver, no
// parameter and "/" as base location.
func New(body string) *Sheet {
	return NewSheet(body, nil, nil, "")
}

// NewSheet is the canonical constructor every other one funnels into.
// The parameters map is copied so the caller can keep mutating its
// own. A nil resolver becomes the empty one, an empty base becomes "/".
func NewSheet(body string, src Sources, params map[string]any, base string) *Sheet {
	if src == nil {
		src = NoSources()
	}
	if base == "" {
		base = "/"
	}
	return &Sheet{
		body:    body,
		base:    base,
		sources: src,
		params:  maps.Clone(params),
	}
}

// Open reads a stylesheet from a file path or a http(s) url. The base
// location is set to the absolute location of the origin so relative
// references resolve next to it.
func Open(location string) (*Sheet, error) {
	if isRemote(location) {
		body, err := fetch(location)
		if err != nil {
			return nil, &ResourceError{
				Location: location,
				Err:      err,
			}
		}
		return NewSheet(body, nil, nil, location), nil
	}
	body, err := os.ReadFile(location)
	if err != nil {
		return nil, &ResourceError{
			Location: location,
			Err:      err,
		}
	}
	abs, err := filepath.Abs(location)
	if err != nil {
		abs = location
	}
	return NewSheet(string(body), nil, nil, abs), nil
}

// ReadFrom reads a stylesheet from a stream.
func ReadFrom(r io.Reader) (*Sheet, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ResourceError{
			Location: "stream",
			Err:      err,
		}
	}
	return New(string(body)), nil
}

// FromDocument wraps an already parsed stylesheet.
func FromDocument(doc *xml.Document) *Sheet {
	return New(xml.WriteNode(doc))
}

// Must panics when err is set. Meant for package level stylesheets.
func Must(sheet *Sheet, err error) *Sheet {
	if err != nil {
		panic(err)
	}
	return sheet
}

// WithSources returns a new sheet with the given resolver attached.
func (s *Sheet) WithSources(src Sources) *Sheet {
	if src == nil {
		src = NoSources()
	}
	clone := s.clone()
	clone.sources = src
	return clone
}

// WithParam returns a new sheet with the parameter bound. Binding a
// name already bound replaces its value.
func (s *Sheet) WithParam(name string, value any) *Sheet {
	clone := s.clone()
	if clone.params == nil {
		clone.params = make(map[string]any)
	}
	clone.params[name] = value
	return clone
}

// WithRelay returns a new sheet forwarding stylesheet messages to the
// given relay. Messages flow only when the engine exposes a message
// channel; the default engine does not carry xsl:message text to it.
func (s *Sheet) WithRelay(relay Relay) *Sheet {
	clone := s.clone()
	clone.relay = relay
	return clone
}

// WithEngine returns a new sheet compiled by the given engine.
func (s *Sheet) WithEngine(eng Engine) *Sheet {
	clone := s.clone()
	clone.eng = eng
	return clone
}

func (s *Sheet) Body() string {
	return s.body
}

func (s *Sheet) Base() string {
	return s.base
}

func (s *Sheet) Sources() Sources {
	return s.sources
}

func (s *Sheet) Params() map[string]any {
	return maps.Clone(s.params)
}

// Equal reports whether both sheets hold the same stylesheet text.
// Parameters, resolver and base location are execution context, not
// identity, and are deliberately left out: two sheets built from the
// same text are the same logical stylesheet whatever their runtime
// configuration. Callers keying caches on sheets rely on this.
func (s *Sheet) Equal(other *Sheet) bool {
	if other == nil {
		return false
	}
	return s.body == other.body
}

// Digest returns a content hash of the body as 16 lowercase hex
// digits. Two equal sheets share their digest.
func (s *Sheet) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s.body))
}

// String renders the body in its canonical serialized form, or
// verbatim when the body does not parse.
func (s *Sheet) String() string {
	p := xml.NewParser(strings.NewReader(s.body))
	p.OmitProlog = true
	doc, err := p.Parse()
	if err != nil {
		return s.body
	}
	var buf strings.Builder
	if err := xml.NewWriter(&buf).Write(doc); err != nil {
		return s.body
	}
	return buf.String()
}

func (s *Sheet) clone() *Sheet {
	clone := *s
	clone.params = maps.Clone(s.params)
	return &clone
}

func (s *Sheet) engine() Engine {
	if s.eng != nil {
		return s.eng
	}
	return DefaultEngine()
}

func (s *Sheet) messages() Relay {
	if s.relay != nil {
		return s.relay
	}
	return LogRelay(nil)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func fetch(location string) (string, error) {
	res, err := http.Get(location)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("unexpected status %s", res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
