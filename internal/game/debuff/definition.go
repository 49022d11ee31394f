// Package debuff implements per-entity timed debuffs: data-driven
// definitions, wall-clock expiry, movement/action gating, and optional Lua
// content hooks.
package debuff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Def is the static definition of a debuff, loadable from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// MovementScale multiplies movement speed while active. 0 = rooted,
	// 1 = unaffected.
	MovementScale float64 `yaml:"movement_scale"`
	// BlocksActions prevents ability activation while active (stun, freeze).
	BlocksActions bool `yaml:"blocks_actions"`
	// TickDamagePerSec applies periodic damage while active (burning,
	// corrupted). 0 = none.
	TickDamagePerSec float64 `yaml:"tick_damage_per_sec"`
	// LuaOnApply and LuaOnExpire are optional sandboxed hook snippets.
	LuaOnApply  string `yaml:"lua_on_apply"`
	LuaOnExpire string `yaml:"lua_on_expire"`
}

// Validate checks the definition's invariants.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("debuff def: id must not be empty")
	}
	if d.MovementScale < 0 || d.MovementScale > 1 {
		return fmt.Errorf("debuff def %q: movement_scale must be in [0, 1]", d.ID)
	}
	if d.TickDamagePerSec < 0 {
		return fmt.Errorf("debuff def %q: tick_damage_per_sec must be >= 0", d.ID)
	}
	return nil
}

// Registry holds all known debuff definitions keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and must pass Validate.
func (r *Registry) Register(def *Def) error {
	if def == nil {
		return fmt.Errorf("debuff: Register: def must not be nil")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false).
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// DefaultRegistry returns the baseline debuff set shared on the sync channel:
// frozen, slowed, stunned, corrupted, burning.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range []*Def{
		{ID: "frozen", Name: "Frozen", MovementScale: 0, BlocksActions: true},
		{ID: "slowed", Name: "Slowed", MovementScale: 0.45},
		{ID: "stunned", Name: "Stunned", MovementScale: 0, BlocksActions: true},
		{ID: "corrupted", Name: "Corrupted", MovementScale: 1, TickDamagePerSec: 4},
		{ID: "burning", Name: "Burning", MovementScale: 1, TickDamagePerSec: 6},
	} {
		if err := r.Register(def); err != nil {
			panic("debuff: invalid baseline def: " + err.Error())
		}
	}
	return r
}

// LoadDirectory reads every *.yaml file in dir and registers each document on
// top of the receiver.
//
// Precondition: dir must be a readable directory.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading debuff dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		for {
			var def Def
			if err := dec.Decode(&def); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return fmt.Errorf("parsing %q: %w", path, err)
			}
			if err := r.Register(&def); err != nil {
				return fmt.Errorf("%q: %w", path, err)
			}
		}
	}
	return nil
}
