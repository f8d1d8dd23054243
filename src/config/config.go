// Package config loads the dockyard manifest: the declared images and
// push registries. YAML is the primary format; a TOML manifest is accepted
// by extension.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".dockyard.yml"

// Config is the top-level dockyard manifest.
type Config struct {
	// Project overrides the project name detected from git.
	Project string `yaml:"project" toml:"project"`
	// Version overrides the project version detected from git tags.
	Version string `yaml:"version" toml:"version"`

	Images     []ImageConfig    `yaml:"images" toml:"images"`
	Registries []RegistryConfig `yaml:"registries" toml:"registries"`
}

// ImageConfig declares one buildable image. Unset fields fall back to
// project-level defaults.
type ImageConfig struct {
	Name      string            `yaml:"name" toml:"name"`
	ImageName string            `yaml:"image_name" toml:"image_name"`
	Version   string            `yaml:"version" toml:"version"`
	Latest    *bool             `yaml:"latest" toml:"latest"`
	BuildArgs map[string]string `yaml:"build_args" toml:"build_args"`
	Platforms []string          `yaml:"platforms" toml:"platforms"`
	Files     FileList          `yaml:"files" toml:"files"`
	JVM       *JVMConfig        `yaml:"jvm" toml:"jvm"`
}

// JVMConfig opts an image into the generated JVM Dockerfile.
type JVMConfig struct {
	BaseImage string   `yaml:"base_image" toml:"base_image"`
	BaseTag   string   `yaml:"base_tag" toml:"base_tag"`
	AppName   string   `yaml:"app_name" toml:"app_name"`
	Extra     []string `yaml:"extra" toml:"extra"`
}

// RegistryConfig declares one push destination.
type RegistryConfig struct {
	Name   string `yaml:"name" toml:"name"`
	Prefix string `yaml:"prefix" toml:"prefix"`
}

// FileList is a path list that, in YAML, also accepts a single scalar:
//
//	files: app/
//	files: [app/, Dockerfile]
type FileList []string

// UnmarshalYAML implements the scalar-or-list form.
func (f *FileList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return fmt.Errorf("files: %w", err)
		}
		*f = FileList{s}
		return nil
	}
	if value.Kind == yaml.SequenceNode {
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("files: %w", err)
		}
		*f = FileList(list)
		return nil
	}
	return fmt.Errorf("files: expected string or list, got YAML kind %d", value.Kind)
}

// Load reads the manifest. If path is empty, it tries the default file and
// returns an empty manifest when none exists. The parser is chosen by
// extension: ".toml" uses TOML, everything else YAML.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if filepath.Ext(path) == ".toml" {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return cfg, nil
}
