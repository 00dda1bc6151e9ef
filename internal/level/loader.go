package level

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vovakirdan/beatstep/internal/config"
)

//go:embed levels/*.yaml
var embeddedLevels embed.FS

// Pack is an ordered set of level descriptors.
type Pack struct {
	levels []Descriptor
}

// NewPack orders descriptors by their Order field, then by ID.
func NewPack(descs []Descriptor) (*Pack, error) {
	seen := make(map[string]bool, len(descs))
	for _, d := range descs {
		if seen[d.ID] {
			return nil, descriptorError(d.ID, "duplicate id")
		}
		seen[d.ID] = true
	}
	out := append([]Descriptor(nil), descs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return &Pack{levels: out}, nil
}

// Len returns the number of levels.
func (p *Pack) Len() int { return len(p.levels) }

// Get returns the descriptor at index.
func (p *Pack) Get(index int) (Descriptor, error) {
	if index < 0 || index >= len(p.levels) {
		return Descriptor{}, &InvalidLevelIndexError{Index: index, Count: len(p.levels)}
	}
	return p.levels[index], nil
}

// Find returns the index of the level with the given id.
func (p *Pack) Find(id string) (int, bool) {
	for i, d := range p.levels {
		if d.ID == id {
			return i, true
		}
	}
	return -1, false
}

// All returns a copy of the ordered descriptors.
func (p *Pack) All() []Descriptor {
	return append([]Descriptor(nil), p.levels...)
}

// LoadEmbedded returns the built-in levels.
func LoadEmbedded() (*Pack, error) {
	sub, err := fs.Sub(embeddedLevels, "levels")
	if err != nil {
		return nil, err
	}
	return loadFS(sub)
}

// LoadDir reads every *.yaml file in dir.
func LoadDir(dir string) (*Pack, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("level: %s is not a directory", dir)
	}
	return loadFS(os.DirFS(dir))
}

// Load finds the level pack.
// Search order: customDir -> ~/.beatstep/levels -> ./levels -> embedded levels
func Load(customDir string) (*Pack, error) {
	if customDir != "" {
		pack, err := LoadDir(customDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load levels from %s: %w", customDir, err)
		}
		return pack, nil
	}

	candidates := []string{"levels"}
	if dir := config.DataDir(); dir != "" {
		candidates = append([]string{filepath.Join(dir, "levels")}, candidates...)
	}
	for _, dir := range candidates {
		if pack, err := LoadDir(dir); err == nil && pack.Len() > 0 {
			return pack, nil
		}
	}
	return LoadEmbedded()
}

func loadFS(fsys fs.FS) (*Pack, error) {
	names, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, err
	}
	descs := make([]Descriptor, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		d, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		descs = append(descs, d)
	}
	return NewPack(descs)
}
