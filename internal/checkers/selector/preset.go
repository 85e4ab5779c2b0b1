package selector

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Kind names a selection strategy.
type Kind string

const (
	KindRandom  Kind = "random"
	KindJumps   Kind = "jumps"
	KindMinimax Kind = "minimax"
	KindOracle  Kind = "oracle"
)

// Preset is a named selector configuration.
type Preset struct {
	Name  string
	Kind  Kind
	Depth int
}

var presetMu sync.RWMutex

var DefaultPresets = map[string]Preset{
	"random":   {Name: "random", Kind: KindRandom},
	"jumps":    {Name: "jumps", Kind: KindJumps},
	"minimax1": {Name: "minimax1", Kind: KindMinimax, Depth: 1},
	"minimax2": {Name: "minimax2", Kind: KindMinimax, Depth: 2},
	"minimax3": {Name: "minimax3", Kind: KindMinimax, Depth: 3},
	"minimax4": {Name: "minimax4", Kind: KindMinimax, Depth: 4},
	"minimax5": {Name: "minimax5", Kind: KindMinimax, Depth: 5},
	"minimax6": {Name: "minimax6", Kind: KindMinimax, Depth: 6},
	"oracle":   {Name: "oracle", Kind: KindOracle},
}

func GetPreset(name string) (Preset, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "easy":
		name = "random"
	case "medium", "prefer-jumps":
		name = "jumps"
	case "minimax", "hard":
		name = "minimax3"
	case "expert":
		name = "minimax5"
	case "llm":
		name = "oracle"
	}
	presetMu.RLock()
	p, ok := DefaultPresets[name]
	presetMu.RUnlock()
	if ok {
		return p, nil
	}
	return Preset{}, fmt.Errorf("unknown selector preset: %s", name)
}

// RegisterPreset adds or replaces a preset after validating it.
func RegisterPreset(p Preset) error {
	if err := ValidatePreset(p); err != nil {
		return err
	}
	presetMu.Lock()
	DefaultPresets[p.Name] = p
	presetMu.Unlock()
	return nil
}

// PresetNames returns the registered preset names, sorted.
func PresetNames() []string {
	presetMu.RLock()
	defer presetMu.RUnlock()
	out := make([]string, 0, len(DefaultPresets))
	for name := range DefaultPresets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func ValidatePreset(p Preset) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("preset name must not be empty")
	case p.Kind == KindMinimax && (p.Depth < 1 || p.Depth > 12):
		return fmt.Errorf("minimax depth %d out of range 1-12", p.Depth)
	case p.Kind != KindMinimax && p.Depth != 0:
		return fmt.Errorf("depth only applies to minimax presets")
	}
	switch p.Kind {
	case KindRandom, KindJumps, KindMinimax, KindOracle:
		return nil
	default:
		return fmt.Errorf("unknown selector kind: %s", p.Kind)
	}
}

// Deps are the collaborators a preset may need.
type Deps struct {
	Seed   int64
	Cache  DecisionCache
	Oracle MoveOracle
	Logger *zap.Logger
}

// New builds the selector for a preset name.
func New(name string, deps Deps) (Selector, error) {
	p, err := GetPreset(name)
	if err != nil {
		return nil, err
	}
	return FromPreset(p, deps)
}

func FromPreset(p Preset, deps Deps) (Selector, error) {
	if err := ValidatePreset(p); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rnd := NewRandom(deps.Seed)
	switch p.Kind {
	case KindRandom:
		return rnd, nil
	case KindJumps:
		return NewPreferJumps(rnd), nil
	case KindMinimax:
		return NewMinimax(p.Depth, deps.Cache, logger), nil
	case KindOracle:
		if deps.Oracle == nil {
			return nil, fmt.Errorf("preset %s needs an oracle endpoint", p.Name)
		}
		return NewOracle(deps.Oracle, NewPreferJumps(rnd), logger), nil
	}
	return nil, fmt.Errorf("unknown selector kind: %s", p.Kind)
}
