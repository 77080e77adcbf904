package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/kwmap/pkg/kwmap/internalerr"
	"github.com/cognicore/kwmap/pkg/kwmap/rangefilter"
)

// File is the explorer configuration file.
type File struct {
	// Ranges adds or replaces named buckets per dimension.
	Ranges rangefilter.Catalog `yaml:"ranges" toml:"ranges"`
	// PillarNames maps source pillar names to display names.
	PillarNames map[string]string `yaml:"pillar_names" toml:"pillar_names"`
	Exclusions  []string          `yaml:"exclusions" toml:"exclusions"`
	DefaultSort string            `yaml:"default_sort" toml:"default_sort"`
	PageSize    int               `yaml:"page_size" toml:"page_size"`
	NodeTypes   []string          `yaml:"node_types" toml:"node_types"`
	Pillar      string            `yaml:"pillar" toml:"pillar"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() *File {
	return &File{
		Ranges:      rangefilter.DefaultCatalog(),
		PillarNames: map[string]string{},
		DefaultSort: "name:asc",
		PageSize:    50,
		NodeTypes:   []string{"pillar", "parent", "subtopic", "cluster", "keywords"},
		Pillar:      "all",
	}
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) file and overlays it on
// Defaults. Unknown keys are rejected.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Decode(data, format)
}

// Decode parses data in the named format ("yaml", "yml" or "toml") and
// overlays it on Defaults.
func Decode(data []byte, format string) (*File, error) {
	var override File
	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: yaml: %v", internalerr.ErrInvalidConfig, err)
		}
	case "toml":
		md, err := toml.Decode(string(data), &override)
		if err != nil {
			return nil, fmt.Errorf("%w: toml: %v", internalerr.ErrInvalidConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: unknown key %q", internalerr.ErrInvalidConfig, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", internalerr.ErrInvalidConfig, format)
	}

	f := Defaults()
	f.overlay(override)
	return f, nil
}

func (f *File) overlay(o File) {
	f.Ranges = f.Ranges.Merge(o.Ranges)
	for k, v := range o.PillarNames {
		f.PillarNames[k] = v
	}
	if o.Exclusions != nil {
		f.Exclusions = o.Exclusions
	}
	if o.DefaultSort != "" {
		f.DefaultSort = o.DefaultSort
	}
	if o.PageSize != 0 {
		f.PageSize = o.PageSize
	}
	if o.NodeTypes != nil {
		f.NodeTypes = o.NodeTypes
	}
	if o.Pillar != "" {
		f.Pillar = o.Pillar
	}
}
