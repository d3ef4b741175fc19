package xsl_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/midbel/xsl"
)

func TestSinkCollect(t *testing.T) {
	sink := xsl.NewSink()
	if !sink.Empty() {
		t.Errorf("fresh sink should be empty")
	}
	sink.Warningf(xsl.Location{}, "first")
	sink.Errorf(xsl.Location{Line: 3, Column: 7}, "second")
	sink.Fatalf(xsl.Location{System: "lib.xsl", Line: 1, Column: 1}, "third")

	list := sink.Diagnostics()
	if len(list) != 3 {
		t.Fatalf("want 3 diagnostics, got %d", len(list))
	}
	if list[0].Severity != xsl.SevWarning || list[1].Severity != xsl.SevError || list[2].Severity != xsl.SevFatal {
		t.Errorf("diagnostics should keep their emission order: %v", list)
	}
}

func TestSinkSummary(t *testing.T) {
	sink := xsl.NewSink()
	sink.Warningf(xsl.Location{}, "something looks off")
	sink.Errorf(xsl.Location{Line: 3, Column: 7}, "something is wrong")

	summary := sink.Summary()
	lines := strings.Split(summary, "\n")
	if len(lines) != 2 {
		t.Fatalf("want one line per diagnostic, got %q", summary)
	}
	if lines[0] != "warning: something looks off" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "error: 3:7: something is wrong" {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		Severity xsl.Severity
		Want     string
	}{
		{Severity: xsl.SevWarning, Want: "warning"},
		{Severity: xsl.SevError, Want: "error"},
		{Severity: xsl.SevFatal, Want: "fatal"},
	}
	for _, tt := range tests {
		if got := tt.Severity.String(); got != tt.Want {
			t.Errorf("want %s, got %s", tt.Want, got)
		}
	}
}

func TestLogRelay(t *testing.T) {
	var (
		buf    bytes.Buffer
		logger = slog.New(slog.NewTextHandler(&buf, nil))
		relay  = xsl.LogRelay(logger)
	)
	relay.Forward(xsl.Message{Text: "hello from stylesheet"})
	if !strings.Contains(buf.String(), "hello from stylesheet") {
		t.Errorf("relayed message missing from log output: %q", buf.String())
	}
	relay.Forward(xsl.Message{
		Location: xsl.Location{System: "main.xsl", Line: 4, Column: 2},
		Text:     "located",
	})
	if !strings.Contains(buf.String(), "main.xsl:4:2") {
		t.Errorf("relayed location missing from log output: %q", buf.String())
	}
}

func TestNoopRelay(t *testing.T) {
	xsl.NoopRelay().Forward(xsl.Message{Text: "dropped"})
}
