// Package pipeline assembles transformation chains from yaml files.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/midbel/xsl"
)

type Step struct {
	File    string         `yaml:"file"`
	Sources string         `yaml:"sources"`
	Params  map[string]any `yaml:"params"`
}

type Config struct {
	Steps []Step `yaml:"steps"`
}

// Load reads a pipeline description. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var (
		cfg Config
		dec = yaml.NewDecoder(r)
	)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(cfg.Steps) == 0 {
		return nil, fmt.Errorf("%s: empty pipeline", path)
	}
	return &cfg, nil
}

// Build opens every stylesheet of the pipeline, relative paths
// resolved against basedir, and assembles them into a chain.
func (c *Config) Build(basedir string) (xsl.Chain, error) {
	var chain xsl.Chain
	for i, s := range c.Steps {
		if s.File == "" {
			return nil, fmt.Errorf("step %d: missing stylesheet file", i+1)
		}
		sheet, err := xsl.Open(resolvePath(basedir, s.File))
		if err != nil {
			return nil, err
		}
		if s.Sources != "" {
			sheet = sheet.WithSources(xsl.DirSources(resolvePath(basedir, s.Sources)))
		}
		for name, value := range s.Params {
			sheet = sheet.WithParam(name, value)
		}
		chain = append(chain, sheet)
	}
	return chain, nil
}

func resolvePath(basedir, path string) string {
	if basedir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(basedir, path)
}
