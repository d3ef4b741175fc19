package xsl_test

import (
	"strings"
	"testing"

	"github.com/midbel/xsl"
)

const wrapBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:output omit-xml-declaration="yes"/>
  <xsl:template match="/">
    <wrapped><xsl:copy-of select="/*"/></wrapped>
  </xsl:template>
</xsl:stylesheet>`

const nameBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:output omit-xml-declaration="yes"/>
  <xsl:template match="/">
    <seen><xsl:if test="/wrapped">wrapped</xsl:if></seen>
  </xsl:template>
</xsl:stylesheet>`

func TestChainEmpty(t *testing.T) {
	var (
		chain xsl.Chain
		doc   = parseInput(t, "<root><child/></root>")
	)
	res, err := chain.Transform(doc)
	if err != nil {
		t.Fatalf("empty chain should not fail: %s", err)
	}
	if res != doc {
		t.Errorf("empty chain should return the input document")
	}
	got, err := chain.Apply(doc)
	if err != nil {
		t.Fatalf("empty chain should serialize the input: %s", err)
	}
	if !strings.Contains(got, "<root>") {
		t.Errorf("serialized input mismatched: %q", got)
	}
}

func TestChainOrder(t *testing.T) {
	chain := xsl.Chain{
		xsl.New(wrapBody),
		xsl.New(nameBody),
	}
	got, err := chain.Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing chain: %s", err)
	}
	if normalize(t, got) != normalize(t, "<seen>wrapped</seen>") {
		t.Errorf("second sheet should consume the output of the first, got %q", got)
	}
}

func TestChainStopsOnFailure(t *testing.T) {
	chain := xsl.Chain{
		xsl.New("<xsl:stylesheet"),
		xsl.New(nameBody),
	}
	if _, err := chain.Apply(parseInput(t, "<root/>")); err == nil {
		t.Errorf("failing step should fail the whole chain")
	}
}
