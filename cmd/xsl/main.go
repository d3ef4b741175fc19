package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/midbel/cli"
)

var (
	summary = "xsl applies xslt stylesheets to xml documents"
	help    = ""
)

func main() {
	var (
		set  = cli.NewFlagSet("xsl")
		root = prepare()
	)
	root.SetSummary(summary)
	root.SetHelp(help)
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			root.Help()
			os.Exit(2)
		}
	}
	err := root.Execute(set.Args())
	if err != nil {
		if s, ok := err.(cli.SuggestionError); ok && len(s.Others) > 0 {
			fmt.Fprintln(os.Stderr, "similar command(s)")
			for _, n := range s.Others {
				fmt.Fprintln(os.Stderr, "-", n)
			}
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func prepare() *cli.CommandTrie {
	root := cli.New()
	root.Register([]string{"transform"}, &transformCmd)
	root.Register([]string{"batch"}, &batchCmd)
	root.Register([]string{"watch"}, &watchCmd)
	root.Register([]string{"serve"}, &serveCmd)
	root.Register([]string{"strip"}, &stripCmd)
	root.Register([]string{"chain"}, &chainCmd)
	return root
}
