// Package desc implements the reflective type-description cache that
// bridges the scripting environment to the host type system. Each host
// type gets a lazily-populated ClassDesc exposing its inheritance
// chain and its fields by name; a Registry owns the descriptors and
// resolves cross-type references.
package desc

import (
	"fmt"

	"github.com/scriptbind/scriptbind/host"
)

// userdataAlign is the alignment the scripting-side container
// guarantees for embedded struct instances.
const userdataAlign = 8

// ClassDesc is the per-type cache entry: kind flags, layout metadata,
// the resolved inheritance chain and the on-demand field table.
//
// A ClassDesc is not safe for concurrent use; all reflection queries
// are expected to originate from the scripting thread.
type ClassDesc struct {
	registry *Registry
	strct    *host.Struct // nil while unloaded
	name     string

	isScriptStruct bool
	isClass        bool
	isInterface    bool
	isNative       bool

	size            int
	userdataPadding int
	refCount        int

	funcDefaults *host.FunctionDefaults
	superClasses []*ClassDesc

	fields     map[string]*FieldDesc
	properties []*PropertyDesc
	functions  []*FunctionDesc
}

// initialize classifies the descriptor and resolves its inheritance
// chain. The caller (the registry) has already published the shell so
// recursive resolution terminates.
func (cd *ClassDesc) initialize(s *host.Struct) {
	if s == nil {
		panic("desc: class descriptor constructed from nil type")
	}
	cd.strct = s
	cd.fields = make(map[string]*FieldDesc)

	cd.isScriptStruct = s.Kind() == host.KindScriptStruct
	cd.isClass = s.Kind() == host.KindClass || s.Kind() == host.KindInterface
	// the universal interface marker is a plain class here
	cd.isInterface = s.Kind() == host.KindInterface && s.Super() != nil
	cd.isNative = s.IsNative()

	if cd.isClass {
		cd.size = s.Size()

		// pre-warm implemented interfaces so interface-qualified
		// lookups resolve later
		for _, iface := range s.Interfaces() {
			cd.registry.RegisterByType(iface)
		}

		cd.funcDefaults = cd.registry.world.DefaultsFor(cd.name)
	} else if cd.isScriptStruct {
		alignment := s.Alignment()
		cd.size = s.Size()
		if ops := s.Ops(); ops != nil {
			alignment = ops.Alignment
			cd.size = ops.Size
		}
		cd.userdataPadding = calcUserdataPadding(alignment)
	}

	for sup := s.Super(); sup != nil; sup = sup.Super() {
		cd.superClasses = append(cd.superClasses, cd.registry.RegisterByType(sup))
	}
}

// calcUserdataPadding returns the bytes reserved ahead of an embedded
// struct instance so the instance lands on an alignment-correct
// offset inside the container.
func calcUserdataPadding(alignment int) int {
	if alignment <= userdataAlign {
		return 0
	}
	return (userdataAlign+alignment-1)/alignment*alignment - userdataAlign
}

// Name returns the registry name of the type. It remains valid while
// the underlying type is unloaded.
func (cd *ClassDesc) Name() string { return cd.name }

// Struct returns the live underlying type, or nil while unloaded.
func (cd *ClassDesc) Struct() *host.Struct { return cd.strct }

func (cd *ClassDesc) IsClass() bool        { return cd.isClass }
func (cd *ClassDesc) IsScriptStruct() bool { return cd.isScriptStruct }
func (cd *ClassDesc) IsInterface() bool    { return cd.isInterface }
func (cd *ClassDesc) IsNative() bool       { return cd.isNative }

// Size returns the byte size of the underlying type, 0 until resolved.
func (cd *ClassDesc) Size() int { return cd.size }

// UserdataPadding returns the padding reserved ahead of an embedded
// struct instance. Zero for classes and interfaces.
func (cd *ClassDesc) UserdataPadding() int { return cd.userdataPadding }

// NumProperties and NumFunctions report how many member descriptors
// have been registered so far.
func (cd *ClassDesc) NumProperties() int { return len(cd.properties) }
func (cd *ClassDesc) NumFunctions() int  { return len(cd.functions) }

// AddRef and SubRef adjust the cache-lifetime hint counter. The
// counter carries no ownership; eviction is the registry's call.
func (cd *ClassDesc) AddRef() { cd.refCount++ }
func (cd *ClassDesc) SubRef() { cd.refCount-- }

// RefCount returns the current hint count.
func (cd *ClassDesc) RefCount() int { return cd.refCount }

// FindField returns the already-registered field with the given name,
// or nil. It re-resolves an unloaded type but never registers new
// fields.
func (cd *ClassDesc) FindField(name string) *FieldDesc {
	cd.Load()
	return cd.fields[name]
}

// RegisterField resolves a member name to a FieldDesc, creating the
// underlying property or function descriptor exactly once, on the
// descriptor of the type that actually declares the member. query is
// the descriptor the lookup was originally issued against. Returns
// nil when no such member exists.
func (cd *ClassDesc) RegisterField(name string, query *ClassDesc) *FieldDesc {
	cd.Load()

	if fd, ok := cd.fields[name]; ok {
		return fd
	}

	// a property or a function?
	prop := cd.strct.FindProperty(name)
	var fn *host.Function
	if prop == nil && cd.isClass {
		fn = cd.strct.FindFunction(name)
	}
	if prop == nil && fn == nil && cd.isScriptStruct && !cd.strct.IsNative() {
		// script tooling may rename struct members with a uniqueness
		// suffix; try to match against recovered display names
		prop = cd.recoverProperty(name)
	}
	if prop == nil && fn == nil {
		return nil
	}

	var outer *host.Struct
	if prop != nil {
		outer = prop.Outer()
	} else {
		outer = fn.Outer()
	}
	if outer == nil {
		// member with an unrecognized owner: treat as not found
		return nil
	}

	if outer != cd.strct {
		// inherited member: the declaring type owns the registration
		return cd.registry.RegisterByType(outer).RegisterField(name, query)
	}

	fd := &FieldDesc{QueryClass: query, OuterClass: cd}
	cd.fields[name] = fd
	if prop != nil {
		cd.properties = append(cd.properties, NewPropertyDesc(prop))
		fd.FieldIndex = len(cd.properties)
	} else {
		var defaults host.ParamDefaults
		if cd.funcDefaults != nil {
			defaults = cd.funcDefaults.Functions[name]
		}
		cd.functions = append(cd.functions, NewFunctionDesc(fn, defaults))
		fd.FieldIndex = -len(cd.functions)
	}
	return fd
}

func (cd *ClassDesc) recoverProperty(name string) *host.Property {
	policy := cd.registry.recovery
	for _, p := range cd.strct.DirectProperties() {
		if p.IsDeprecated() {
			continue
		}
		if policy.DisplayName(p.Name()) == name {
			return p
		}
	}
	return nil
}

// InheritanceChain returns this descriptor followed by its ancestors,
// outermost last. The chain is resolved once at construction and is
// stable across Load/UnLoad cycles.
func (cd *ClassDesc) InheritanceChain() []*ClassDesc {
	chain := make([]*ClassDesc, 0, len(cd.superClasses)+1)
	chain = append(chain, cd)
	return append(chain, cd.superClasses...)
}

// Load re-resolves the underlying type after an UnLoad. It is a no-op
// while the type is live. The registry contract guarantees the name
// resolves; an unresolvable name is fatal.
func (cd *ClassDesc) Load() {
	if cd.strct != nil {
		return
	}

	name := stripCategoryPrefix(cd.name)
	s := cd.registry.world.Find(name)
	if s == nil {
		loaded, err := cd.registry.world.Load(name)
		if err != nil {
			panic(fmt.Sprintf("desc: failed to load type %q: %v", cd.name, err))
		}
		s = loaded
	}
	cd.strct = s
	// the registry indexes descriptors by live handle; record the
	// rebinding so a later invalidation can find this descriptor
	cd.registry.bindType(s, cd)
}

// UnLoad drops the live type binding and discards every registered
// field, property and function descriptor; they are rebuilt on the
// next access. The inheritance chain is left intact.
func (cd *ClassDesc) UnLoad() {
	if cd.strct == nil {
		return
	}

	clear(cd.fields)
	cd.properties = nil
	cd.functions = nil
	cd.strct = nil
}

// stripCategoryPrefix drops the conventional one-character type
// category prefix from a registry name.
func stripCategoryPrefix(name string) string {
	if len(name) > 1 && (name[0] == 'U' || name[0] == 'A' || name[0] == 'F') {
		return name[1:]
	}
	return name
}
