package blueprint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"docex/internal/common/fsutil"
)

// Registry holds the blueprints known to the process, built-ins plus any
// loaded from a user directory.
type Registry struct {
	byID map[string]Blueprint
}

// NewRegistry seeds a registry with the built-ins.
func NewRegistry() *Registry {
	r := &Registry{byID: map[string]Blueprint{}}
	for _, b := range Builtins() {
		r.byID[b.ID] = b
	}
	return r
}

// LoadDir reads *.yaml/*.yml blueprint files from dir into the registry.
// User blueprints shadow built-ins with the same id. A missing directory is
// not an error; a malformed file is.
func (r *Registry) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return err
	}
	if !fsutil.PathExists(base) {
		return nil
	}
	entries, err := os.ReadDir(base)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		p := filepath.Join(base, e.Name())
		b, err := loadFile(p)
		if err != nil {
			return err
		}
		r.byID[b.ID] = b
	}
	return nil
}

func loadFile(path string) (Blueprint, error) {
	var b Blueprint
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse %s: %w", path, err)
	}
	if b.ID == "" {
		// fall back to the file name, matching how document keys name things
		b.ID = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".yaml"), ".yml")
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Get looks a blueprint up by id.
func (r *Registry) Get(id string) (Blueprint, bool) {
	b, ok := r.byID[id]
	return b, ok
}

// List returns all blueprints sorted by id.
func (r *Registry) List() []Blueprint {
	out := make([]Blueprint, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
