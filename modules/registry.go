// Package modules tracks the images loaded into the instrumented process and
// which of them is the target.
package modules

import (
	"fmt"
	"sync"

	"github.com/zyedidia/rangecov/alloc"
	"github.com/zyedidia/rangecov/engine"
	"github.com/zyedidia/rangecov/list"
)

// UnknownID is attributed to events whose address belongs to no known image.
const UnknownID uint16 = 0xDEAD

// A Module is a loaded image. It is never mutated after registration.
type Module struct {
	ID   uint16
	Base uint64
	End  uint64
	Path string
}

func (m *Module) String() string {
	return fmt.Sprintf("%d: %s [0x%x-0x%x]", m.ID, m.Path, m.Base, m.End)
}

type entry struct {
	ref alloc.Ref
	mod *Module
}

// A Registry owns the module records. Lookups by id scan the list under its
// lock; lookups by address go to the engine's resolver.
type Registry struct {
	arena    *alloc.Arena[Module]
	mods     *list.List[entry]
	resolver engine.Resolver

	mu        sync.RWMutex
	target    uint16
	hasTarget bool
}

// NewRegistry returns an empty registry that allocates from arena and
// resolves addresses through r.
func NewRegistry(arena *alloc.Arena[Module], r engine.Resolver) *Registry {
	return &Registry{
		arena:    arena,
		mods:     list.New[entry](),
		resolver: r,
	}
}

// SetResolver replaces the address resolver. It must be called before events
// are delivered.
func (r *Registry) SetResolver(res engine.Resolver) {
	r.resolver = res
}

// Add registers a module. It fails only if the record cannot be allocated.
func (r *Registry) Add(base, end uint64, id uint16, path string) (*Module, error) {
	ref, err := r.arena.Alloc(1)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", path, err)
	}
	recs, _ := r.arena.Get(ref)
	m := &recs[0]
	*m = Module{
		ID:   id,
		Base: base,
		End:  end,
		Path: path,
	}

	r.mods.InsertTail(entry{ref: ref, mod: m})
	return m, nil
}

// FindByID returns the module with the given id.
func (r *Registry) FindByID(id uint16) (*Module, bool) {
	var found *Module
	r.mods.Each(func(e entry) bool {
		if e.mod.ID == id {
			found = e.mod
			return false
		}
		return true
	})
	return found, found != nil
}

// Resolve returns the id of the module containing addr.
func (r *Registry) Resolve(addr uint64) (uint16, bool) {
	if r.resolver == nil {
		return 0, false
	}
	return r.resolver.ModuleOf(addr)
}

// SetTarget marks id as the target module.
func (r *Registry) SetTarget(id uint16) {
	r.mu.Lock()
	r.target = id
	r.hasTarget = true
	r.mu.Unlock()
}

// Target returns the target module id, if one has been set.
func (r *Registry) Target() (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.target, r.hasTarget
}

// IsTarget returns true if id is the target module.
func (r *Registry) IsTarget(id uint16) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasTarget && r.target == id
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	return r.mods.Len()
}

// Snapshot returns a copy of every module in registration order.
func (r *Registry) Snapshot() []Module {
	mods := make([]Module, 0, r.mods.Len())
	r.mods.Each(func(e entry) bool {
		mods = append(mods, *e.mod)
		return true
	})
	return mods
}

// Close frees every module record.
func (r *Registry) Close() {
	r.mods.DestroyAll(func(e entry) {
		r.arena.Free(&e.ref)
	})
}
