// Package project reads candy.toml manifests.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file name a project manifest lives under.
const ManifestName = "candy.toml"

// Manifest describes a project's [package] section.
type Manifest struct {
	Name string
	Root string
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
		Root string `toml:"root"`
	} `toml:"package"`
}

// Load parses a manifest file. Root defaults to the manifest's directory.
func Load(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	if !meta.IsDefined("package") {
		return nil, ErrPackageSectionMissing
	}
	if cfg.Package.Name == "" {
		return nil, ErrPackageNameMissing
	}
	root := cfg.Package.Root
	if root == "" {
		root = "."
	}
	return &Manifest{
		Name: cfg.Package.Name,
		Root: filepath.Join(filepath.Dir(path), root),
	}, nil
}

// Find walks up from dir looking for a manifest; ok is false when none
// exists up to the filesystem root.
func Find(dir string) (string, bool) {
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
