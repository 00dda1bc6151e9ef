// Package registry maps entity kinds named in level descriptors to the
// factories that build them. Kinds register themselves in init() functions,
// so the level loader can spawn anything without a hardcoded switch.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/beatstep/internal/entity"
)

// Role decides which collection of a level an entity joins.
type Role int

const (
	// RoleEnemy entities update after the player.
	RoleEnemy Role = iota
	// RoleObject entities update before the player.
	RoleObject
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	if r == RoleObject {
		return "object"
	}
	return "enemy"
}

// KindInfo contains metadata about a registered kind.
type KindInfo struct {
	Kind  entity.Kind
	Role  Role
	Title string
}

// Factory builds an entity at spawn. player may be nil.
type Factory func(env *entity.Env, spawn entity.Spawn, player *entity.Player) entity.Entity

type entry struct {
	info    KindInfo
	factory Factory
}

var (
	entries = make(map[entity.Kind]entry)
	mu      sync.RWMutex
)

// Register adds a factory for kind.
// Panics if the kind is already registered.
func Register(kind entity.Kind, role Role, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[kind]; exists {
		panic(fmt.Sprintf("registry: kind %q already registered", kind))
	}
	entries[kind] = entry{
		info:    KindInfo{Kind: kind, Role: role, Title: title},
		factory: f,
	}
}

// List returns all registered kinds, sorted by kind.
func List() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})
	return result
}

// Lookup returns the metadata of kind.
func Lookup(kind entity.Kind) (KindInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[kind]
	return e.info, ok
}

// Create builds an entity of the given kind.
// Returns an error if the kind is not registered.
func Create(kind entity.Kind, env *entity.Env, spawn entity.Spawn, player *entity.Player) (entity.Entity, Role, error) {
	mu.RLock()
	e, ok := entries[kind]
	mu.RUnlock()

	if !ok {
		return nil, 0, fmt.Errorf("registry: unknown kind %q", kind)
	}
	return e.factory(env, spawn, player), e.info.Role, nil
}

// Exists checks if a kind is registered.
func Exists(kind entity.Kind) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[kind]
	return ok
}
