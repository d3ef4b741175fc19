package xsl

import (
	_ "embed"
)

//go:embed strip.xsl
var stripSource string

// Strip removes whitespace only text nodes from a document and keeps
// everything else untouched; text holding anything else than
// whitespace is copied verbatim, surrounding spaces included.
var Strip = New(stripSource)
