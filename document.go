package xsl

import (
	"io"
	"os"
	"strings"

	"github.com/midbel/codecs/xml"
)

// ParseDocument reads a document keeping whitespace text nodes and
// empty elements intact, so what goes through a transformation is
// exactly what was written. The xml prolog is optional.
func ParseDocument(r io.Reader) (*xml.Document, error) {
	p := xml.NewParser(r)
	p.TrimSpace = false
	p.KeepEmpty = true
	p.OmitProlog = true
	return p.Parse()
}

// OpenDocument reads a document from a file path or a http(s) url.
func OpenDocument(location string) (*xml.Document, error) {
	if isRemote(location) {
		body, err := fetch(location)
		if err != nil {
			return nil, &ResourceError{
				Location: location,
				Err:      err,
			}
		}
		return ParseDocument(strings.NewReader(body))
	}
	r, err := os.Open(location)
	if err != nil {
		return nil, &ResourceError{
			Location: location,
			Err:      err,
		}
	}
	defer r.Close()
	return ParseDocument(r)
}
