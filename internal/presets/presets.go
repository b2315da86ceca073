package presets

import (
	"errors"
	"fmt"
	"sort"
)

// Preset is a named dungeon configuration loaded from JSON.
type Preset struct {
	Name            string  `json:"name"`            // Unique identifier (e.g., "default")
	Description     string  `json:"description"`     // One line summary
	Width           int     `json:"width"`           // Area width in grid cells
	Height          int     `json:"height"`          // Area height in grid cells
	MinimumRoomSize int     `json:"minimumRoomSize"` // Smallest room side
	Scale           float64 `json:"scale"`           // World units per grid cell
	Variant         string  `json:"variant"`         // "trimmed" or "connected"
	Policy          string  `json:"policy"`          // "linear" or "doors"
}

// Validate reports the first field that cannot drive a generation run.
func (p Preset) Validate() error {
	switch {
	case p.Name == "":
		return errors.New("preset has no name")
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("preset %q: area %dx%d is empty", p.Name, p.Width, p.Height)
	case p.MinimumRoomSize <= 0:
		return fmt.Errorf("preset %q: minimum room size %d must be positive", p.Name, p.MinimumRoomSize)
	case p.Scale <= 0:
		return fmt.Errorf("preset %q: scale %v must be positive", p.Name, p.Scale)
	}
	return nil
}

// PresetsFile represents the structure of presets.json.
type PresetsFile struct {
	Presets []Preset `json:"presets"`
}

// Registry holds loaded presets by name.
type Registry struct {
	byName map[string]Preset
}

// NewRegistry creates a registry from preset definitions, rejecting invalid
// or duplicate entries.
func NewRegistry(presets []Preset) (*Registry, error) {
	r := &Registry{byName: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		r.byName[p.Name] = p
	}
	return r, nil
}

// LoadRegistry loads and creates a registry from the embedded presets.json.
func LoadRegistry() (*Registry, error) {
	file, err := Load[PresetsFile]("presets.json")
	if err != nil {
		return nil, err
	}
	if len(file.Presets) == 0 {
		return nil, errors.New("no presets loaded from presets.json")
	}
	return NewRegistry(file.Presets)
}

// MustLoadRegistry loads a registry, panicking on error.
func MustLoadRegistry() *Registry {
	registry, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Get returns the preset with the given name.
func (r *Registry) Get(name string) (Preset, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns all preset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
