package main

import (
	"fmt"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"
)

var transformCmd = cli.Command{
	Name:    "transform",
	Summary: "apply a stylesheet to a xml document",
	Handler: &TransformCmd{},
}

type TransformCmd struct {
	Dir   string
	Base  string
	File  string
	Color bool
}

func (c *TransformCmd) Run(args []string) error {
	set := cli.NewFlagSet("transform")
	set.StringVar(&c.Dir, "d", "", "resolve imports and documents from directory")
	set.StringVar(&c.Base, "b", "", "base location override")
	set.StringVar(&c.File, "o", "", "output file")
	set.BoolVar(&c.Color, "c", false, "colorize output when writing to a terminal")
	if err := set.Parse(args); err != nil {
		return err
	}
	rest := set.Args()
	if len(rest) < 2 {
		return fmt.Errorf("usage: transform <stylesheet> <document> [name=value...]")
	}
	params, err := splitParams(rest[2:])
	if err != nil {
		return err
	}
	sheet, err := loadSheet(rest[0], c.Dir, c.Base)
	if err != nil {
		return err
	}
	for name, value := range params {
		sheet = sheet.WithParam(name, value)
	}
	doc, err := xsl.OpenDocument(rest[1])
	if err != nil {
		return err
	}
	result, err := sheet.Apply(doc)
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
