package main

import (
	"fmt"
	"os"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"

	codecs "github.com/midbel/codecs/xml"
)

var stripCmd = cli.Command{
	Name:    "strip",
	Summary: "remove insignificant whitespace from a xml document",
	Handler: &StripCmd{},
}

type StripCmd struct {
	File string
}

func (c *StripCmd) Run(args []string) error {
	set := cli.NewFlagSet("strip")
	set.StringVar(&c.File, "o", "", "output file")
	if err := set.Parse(args); err != nil {
		return err
	}
	var (
		rest = set.Args()
		doc  *codecs.Document
		err  error
	)
	if len(rest) == 0 {
		doc, err = xsl.ParseDocument(os.Stdin)
	} else {
		doc, err = xsl.OpenDocument(rest[0])
	}
	if err != nil {
		return err
	}
	result, err := xsl.Strip.Apply(doc)
	if err != nil {
		return err
	}
	out, err := openOutput(c.File)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := writeResult(out, result, false); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
