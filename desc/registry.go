package desc

import (
	"github.com/sirupsen/logrus"

	"github.com/scriptbind/scriptbind/host"
)

// Registry owns every ClassDesc and maps type names and live type
// handles to descriptors. It is an explicit object rather than
// process-global state; descriptors hold a non-owning back-reference
// to it for recursive resolution.
type Registry struct {
	world    *host.World
	recovery RecoveryPolicy

	byName map[string]*ClassDesc // registry name (and aliases) -> descriptor
	byType map[*host.Struct]*ClassDesc

	log *logrus.Entry
}

// NewRegistry creates an empty registry over the given world.
func NewRegistry(world *host.World) *Registry {
	return &Registry{
		world:    world,
		recovery: DefaultRecoveryPolicy,
		byName:   make(map[string]*ClassDesc),
		byType:   make(map[*host.Struct]*ClassDesc),
		log:      logrus.WithField("component", "desc"),
	}
}

// World returns the host type universe this registry resolves against.
func (r *Registry) World() *host.World { return r.world }

// SetRecoveryPolicy replaces the struct-field name-recovery rule.
// Call before any descriptors are created.
func (r *Registry) SetRecoveryPolicy(p RecoveryPolicy) { r.recovery = p }

// RegisterByType resolves or creates the descriptor for a live type.
// Idempotent: the same type always yields the same descriptor.
func (r *Registry) RegisterByType(s *host.Struct) *ClassDesc {
	if s == nil {
		return nil
	}
	if cd, ok := r.byType[s]; ok {
		return cd
	}

	name := s.RegistryName()
	if cd, ok := r.byName[name]; ok {
		// same type back after a hot reload: rebind the handle
		r.byType[s] = cd
		if cd.strct == nil {
			cd.strct = s
		}
		return cd
	}

	// publish the shell before resolving supers and interfaces so
	// recursive registration of a cyclic graph terminates
	cd := &ClassDesc{registry: r, name: name}
	r.byName[name] = cd
	r.byType[s] = cd
	cd.initialize(s)

	r.log.WithFields(logrus.Fields{"type": name, "kind": s.Kind().String()}).Debug("registered class descriptor")
	return cd
}

// bindType records a descriptor's re-resolved live handle, keeping
// the handle index coherent when ClassDesc.Load rebinds after an
// invalidation.
func (r *Registry) bindType(s *host.Struct, cd *ClassDesc) {
	r.byType[s] = cd
}

// RegisterByName resolves or creates a descriptor from a registry
// name (category prefix optional). Returns nil when the name resolves
// to no resident or loadable type.
func (r *Registry) RegisterByName(name string) *ClassDesc {
	if cd, ok := r.byName[name]; ok {
		return cd
	}

	bare := stripCategoryPrefix(name)
	s := r.world.Find(bare)
	if s == nil {
		loaded, err := r.world.Load(bare)
		if err != nil {
			return nil
		}
		s = loaded
	}

	cd := r.RegisterByType(s)
	if cd != nil && name != cd.name {
		// remember the queried spelling so repeat lookups are direct
		r.byName[name] = cd
	}
	return cd
}

// Find returns the descriptor registered under the given name, or nil.
// It never creates descriptors or loads types.
func (r *Registry) Find(name string) *ClassDesc {
	return r.byName[name]
}

// Invalidate unloads the descriptors of the given live types after
// the world dropped them, detaching the stale handles. Descriptors
// stay registered by name and re-resolve on next access.
func (r *Registry) Invalidate(types ...*host.Struct) {
	for _, s := range types {
		cd, ok := r.byType[s]
		if !ok {
			continue
		}
		cd.UnLoad()
		delete(r.byType, s)
		r.log.WithField("type", cd.name).Debug("invalidated class descriptor")
	}
}
