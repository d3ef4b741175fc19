package xsl

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/midbel/codecs/xml"
)

// Chain applies its sheets in order, each one consuming the output
// tree of the previous. An empty chain leaves the document untouched.
type Chain []*Sheet

func (c Chain) Transform(doc *xml.Document) (*xml.Document, error) {
	var err error
	for i := range c {
		doc, err = c[i].Transform(doc)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Generate serializes through the last sheet of the chain so its
// output directives apply. An empty chain writes the document with
// the default settings.
func (c Chain) Generate(w io.Writer, doc *xml.Document) error {
	if len(c) == 0 {
		return xml.NewWriter(w).Write(doc)
	}
	doc, err := c[:len(c)-1].Transform(doc)
	if err != nil {
		return err
	}
	return c[len(c)-1].Generate(w, doc)
}

func (c Chain) Apply(doc *xml.Document) (string, error) {
	var buf bytes.Buffer
	if err := c.Generate(&buf, doc); err != nil {
		return "", err
	}
	if !utf8.Valid(buf.Bytes()) {
		panic("xsl: transformation result is not valid utf-8")
	}
	return buf.String(), nil
}
