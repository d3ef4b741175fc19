package main

import (
	"fmt"
	"path/filepath"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"
	"github.com/midbel/xsl/pipeline"
)

var chainCmd = cli.Command{
	Name:    "chain",
	Summary: "run a pipeline of stylesheets described in a yaml file",
	Handler: &ChainCmd{},
}

type ChainCmd struct {
	File  string
	Color bool
}

func (c *ChainCmd) Run(args []string) error {
	set := cli.NewFlagSet("chain")
	set.StringVar(&c.File, "o", "", "output file")
	set.BoolVar(&c.Color, "c", false, "colorize output when writing to a terminal")
	if err := set.Parse(args); err != nil {
		return err
	}
	rest := set.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: chain <pipeline.yml> <document>")
	}
	cfg, err := pipeline.Load(rest[0])
	if err != nil {
		return err
	}
	chain, err := cfg.Build(filepath.Dir(rest[0]))
	if err != nil {
		return err
	}
	doc, err := xsl.OpenDocument(rest[1])
	if err != nil {
		return err
	}
	result, err := chain.Apply(doc)
	if err != nil {
		return err
	}
	out, err := openOutput(c.File)
	if err != nil {
		return err
	}
	defer out.Close()
	return writeResult(out, result, c.Color)
}
