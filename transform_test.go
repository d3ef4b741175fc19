package xsl_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/midbel/codecs/xml"
	"github.com/midbel/xsl"
)

const paramBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:output omit-xml-declaration="yes"/>
  <xsl:param name="name" select="'fallback'"/>
  <xsl:template match="/">
    <out><xsl:value-of select="$name"/></out>
  </xsl:template>
</xsl:stylesheet>`

const importBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:output omit-xml-declaration="yes"/>
  <xsl:import href="lib.xsl"/>
  <xsl:template match="/">
    <xsl:call-template name="mark"/>
  </xsl:template>
</xsl:stylesheet>`

const libBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:template name="mark"><ok/></xsl:template>
</xsl:stylesheet>`

const runtimeBody = `<xsl:stylesheet version="3.0" xmlns:xsl="http://www.w3.org/1999/XSL/Transform">
  <xsl:template match="/">
    <out><xsl:value-of select="$missing"/></out>
  </xsl:template>
</xsl:stylesheet>`

func parseInput(t *testing.T, input string) *xml.Document {
	t.Helper()
	doc, err := xsl.ParseDocument(strings.NewReader(input))
	if err != nil {
		t.Fatalf("error parsing input document: %s", err)
	}
	return doc
}

func normalize(t *testing.T, input string) string {
	t.Helper()
	doc, err := xsl.ParseDocument(strings.NewReader(input))
	if err != nil {
		return input
	}
	var buf bytes.Buffer
	if err := xml.NewWriter(&buf).Write(doc); err != nil {
		return input
	}
	return buf.String()
}

func TestApplyIdempotent(t *testing.T) {
	var (
		sheet = xsl.New(paramBody)
		doc   = parseInput(t, "<root/>")
	)
	first, err := sheet.Apply(doc)
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	second, err := sheet.Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform again: %s", err)
	}
	if first != second {
		t.Errorf("same input should give byte identical output:\nfirst : %q\nsecond: %q", first, second)
	}
}

func TestApplyPrologOptional(t *testing.T) {
	tests := []string{
		paramBody,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + paramBody,
	}
	for _, body := range tests {
		got, err := xsl.New(body).Apply(parseInput(t, "<root/>"))
		if err != nil {
			t.Fatalf("error executing transform: %s", err)
		}
		if normalize(t, got) != normalize(t, "<out>fallback</out>") {
			t.Errorf("output should not depend on the body carrying a prolog, got %q", got)
		}
	}
}

func TestParamDefault(t *testing.T) {
	got, err := xsl.New(paramBody).Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if normalize(t, got) != normalize(t, "<out>fallback</out>") {
		t.Errorf("stylesheet default should apply when nothing is bound, got %q", got)
	}
}

func TestParamBound(t *testing.T) {
	sheet := xsl.New(paramBody).WithParam("name", "value")
	got, err := sheet.Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if normalize(t, got) != normalize(t, "<out>value</out>") {
		t.Errorf("bound parameter should replace the default, got %q", got)
	}
}

func TestParamBoundOverride(t *testing.T) {
	sheet := xsl.New(paramBody).WithParam("name", "first").WithParam("name", "second")
	got, err := sheet.Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if normalize(t, got) != normalize(t, "<out>second</out>") {
		t.Errorf("last bound value should win, got %q", got)
	}
}

func TestParamDoesNotLeakBetweenDerivations(t *testing.T) {
	var (
		plain = xsl.New(paramBody)
		tuned = plain.WithParam("name", "tuned")
		doc   = "<root/>"
	)
	got, err := tuned.Apply(parseInput(t, doc))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if normalize(t, got) != normalize(t, "<out>tuned</out>") {
		t.Errorf("derived sheet should see its parameter, got %q", got)
	}
	got, err = plain.Apply(parseInput(t, doc))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if normalize(t, got) != normalize(t, "<out>fallback</out>") {
		t.Errorf("original sheet should be unaffected by the derivation, got %q", got)
	}
}

func TestTransformTree(t *testing.T) {
	res, err := xsl.New(paramBody).Transform(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if root := res.Root(); root.LocalName() != "out" {
		t.Errorf("result tree root mismatched: %s", root.LocalName())
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	err := xsl.New(paramBody).Generate(&buf, parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("error executing transform: %s", err)
	}
	if !strings.Contains(buf.String(), "fallback") {
		t.Errorf("generated output misses transformation result: %q", buf.String())
	}
}

func TestImportResolved(t *testing.T) {
	sheet := xsl.New(importBody).WithSources(xsl.MapSources(map[string]string{
		"lib.xsl": libBody,
	}))
	got, err := sheet.Apply(parseInput(t, "<root/>"))
	if err != nil {
		t.Fatalf("import through resolver should succeed: %s", err)
	}
	if !strings.Contains(got, "<ok") {
		t.Errorf("imported template should produce its output, got %q", got)
	}
}

func TestImportNotFound(t *testing.T) {
	_, err := xsl.New(importBody).Apply(parseInput(t, "<root/>"))
	if err == nil {
		t.Fatalf("unresolved import should fail the compilation")
	}
	var cerr *xsl.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("want CompileError, got %T", err)
	}
	if !strings.Contains(err.Error(), "angle") {
		t.Errorf("error should name the engine: %q", err)
	}
}

func TestCompileErrorOnInvalidBody(t *testing.T) {
	_, err := xsl.New("<xsl:stylesheet").Apply(parseInput(t, "<root/>"))
	if err == nil {
		t.Fatalf("invalid stylesheet should fail the compilation")
	}
	var cerr *xsl.CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("want CompileError, got %T", err)
	}
	if !strings.Contains(err.Error(), "angle") {
		t.Errorf("error should name the engine: %q", err)
	}
}

func TestExecuteErrorDistinctFromCompile(t *testing.T) {
	_, err := xsl.New(runtimeBody).Apply(parseInput(t, "<root/>"))
	if err == nil {
		t.Fatalf("runtime failure should fail the transformation")
	}
	var xerr *xsl.ExecuteError
	if !errors.As(err, &xerr) {
		t.Fatalf("want ExecuteError, got %T", err)
	}
	var cerr *xsl.CompileError
	if errors.As(err, &cerr) {
		t.Errorf("runtime failure should not be reported as a compile error")
	}
}
