package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"

	"github.com/midbel/xsl"
)

func splitParams(args []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, a := range args {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("%s: parameter should be given as name=value", a)
		}
		params[name] = value
	}
	return params, nil
}

func loadSheet(file, dir, base string) (*xsl.Sheet, error) {
	sheet, err := xsl.Open(file)
	if err != nil {
		return nil, err
	}
	if base != "" {
		sheet = xsl.NewSheet(sheet.Body(), sheet.Sources(), sheet.Params(), base)
	}
	if dir != "" {
		sheet = sheet.WithSources(xsl.DirSources(dir))
	}
	return sheet, nil
}

func openOutput(file string) (io.WriteCloser, error) {
	if file == "" {
		return nopCloser{Writer: os.Stdout}, nil
	}
	return os.Create(file)
}

type nopCloser struct {
	io.Writer
}

func (_ nopCloser) Close() error {
	return nil
}

func writeResult(w io.Writer, result string, colorize bool) error {
	f, isFile := w.(*os.File)
	if !colorize || !isFile || !isatty.IsTerminal(f.Fd()) {
		_, err := io.WriteString(w, result)
		return err
	}
	return highlight(w, result)
}

func highlight(w io.Writer, code string) error {
	lexer := lexers.Get("xml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return err
	}
	return formatter.Format(w, style, it)
}
