package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"
)

var batchCmd = cli.Command{
	Name:    "batch",
	Summary: "apply one stylesheet to every document matching a glob",
	Handler: &BatchCmd{},
}

type BatchCmd struct {
	Dir    string
	Target string
	Jobs   int
}

type batchResult struct {
	File string
	Err  error
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (c *BatchCmd) Run(args []string) error {
	set := cli.NewFlagSet("batch")
	set.StringVar(&c.Dir, "d", "", "resolve imports and documents from directory")
	set.StringVar(&c.Target, "t", "out", "target directory for results")
	set.IntVar(&c.Jobs, "j", runtime.GOMAXPROCS(0), "number of parallel transformations")
	if err := set.Parse(args); err != nil {
		return err
	}
	rest := set.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: batch <stylesheet> <glob...>")
	}
	sheet, err := loadSheet(rest[0], c.Dir, "")
	if err != nil {
		return err
	}
	var files []string
	for _, pattern := range rest[1:] {
		list, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("%s: invalid pattern", pattern)
		}
		files = append(files, list...)
	}
	if len(files) == 0 {
		return fmt.Errorf("no file matches given pattern(s)")
	}
	if err := os.MkdirAll(c.Target, 0o755); err != nil {
		return err
	}
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(min(jobs, len(files)))
	for i, file := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = batchResult{
				File: file,
				Err:  c.executeOne(sheet, file),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintln(os.Stdout, failStyle.Render("FAIL"), r.File, r.Err)
		} else {
			fmt.Fprintln(os.Stdout, okStyle.Render("OK"), r.File)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d transformation(s) failed", failed, len(results))
	}
	return nil
}

func (c *BatchCmd) executeOne(sheet *xsl.Sheet, file string) error {
	doc, err := xsl.OpenDocument(file)
	if err != nil {
		return err
	}
	w, err := os.Create(filepath.Join(c.Target, filepath.Base(file)))
	if err != nil {
		return err
	}
	defer w.Close()
	return sheet.Generate(w, doc)
}
