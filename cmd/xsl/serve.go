package main

import (
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/midbel/cli"
	"github.com/midbel/xsl"
)

var serveCmd = cli.Command{
	Name:    "serve",
	Summary: "expose stylesheets from a directory over http",
	Handler: &ServeCmd{},
}

type ServeCmd struct {
	Addr string
	Dir  string
}

func (c *ServeCmd) Run(args []string) error {
	set := cli.NewFlagSet("serve")
	set.StringVar(&c.Addr, "a", ":8080", "listening address")
	set.StringVar(&c.Dir, "d", ".", "stylesheets directory")
	if err := set.Parse(args); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /transform/{name}", c.transform)

	server := http.Server{
		Addr:         c.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	slog.Info("server listening", "addr", c.Addr, "dir", c.Dir)
	return server.ListenAndServe()
}

// transform applies the named stylesheet of the configured directory
// to the request body. Parameters come from the query string.
func (c *ServeCmd) transform(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !filepath.IsLocal(name) {
		http.Error(w, "invalid stylesheet name", http.StatusBadRequest)
		return
	}
	sheet, err := xsl.Open(filepath.Join(c.Dir, name))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			sheet = sheet.WithParam(key, values[0])
		}
	}
	doc, err := xsl.ParseDocument(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := sheet.Apply(doc)
	if err != nil {
		slog.Error("transformation failed", "stylesheet", name, "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	io.WriteString(w, result)
	slog.Info("document transformed", "stylesheet", name, "remote", r.RemoteAddr)
}
