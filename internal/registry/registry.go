// Package registry provides a global registry of environment variants.
// Each variant id names a grid size and piece size, e.g.
// "simplifiedtetris-binary-20x10-4-v0" (height x width - piece size).
// Built-in variants register themselves in init(); well-formed ids that
// were never registered are still resolved by parsing.
package registry

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/vovakirdan/tetris-gym/internal/engine"
)

const idFormat = "simplifiedtetris-binary-%dx%d-%d-v0"

// VariantInfo contains metadata about a registered variant.
type VariantInfo struct {
	ID     string
	Title  string
	Config engine.Config
}

var (
	variants = make(map[string]VariantInfo)
	mu       sync.RWMutex
)

// ID formats the variant id for a grid and piece size.
func ID(height, width, pieceSize int) string {
	return fmt.Sprintf(idFormat, height, width, pieceSize)
}

// ParseID extracts the engine configuration from a variant id.
func ParseID(id string) (engine.Config, error) {
	var cfg engine.Config
	n, err := fmt.Sscanf(id, idFormat, &cfg.Height, &cfg.Width, &cfg.PieceSize)
	if err != nil || n != 3 || ID(cfg.Height, cfg.Width, cfg.PieceSize) != id {
		return engine.Config{}, fmt.Errorf("registry: malformed variant id %q", id)
	}
	return cfg, nil
}

// Register adds a variant. Panics if the id is already registered.
func Register(title string, cfg engine.Config) {
	mu.Lock()
	defer mu.Unlock()

	id := ID(cfg.Height, cfg.Width, cfg.PieceSize)
	if _, exists := variants[id]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", id))
	}
	variants[id] = VariantInfo{ID: id, Title: title, Config: cfg}
}

// List returns all registered variants, sorted by ID.
func List() []VariantInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]VariantInfo, 0, len(variants))
	for _, v := range variants {
		result = append(result, v)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}

// Config returns the engine configuration for a variant id. Unregistered
// ids are parsed.
func Config(id string) (engine.Config, error) {
	mu.RLock()
	v, ok := variants[id]
	mu.RUnlock()

	if ok {
		return v.Config, nil
	}
	return ParseID(id)
}

// Make creates a new engine for the variant.
func Make(id string, rng *rand.Rand) (*engine.Engine, error) {
	cfg, err := Config(id)
	if err != nil {
		return nil, err
	}

	e, err := engine.New(cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot create %q: %w", id, err)
	}
	return e, nil
}
