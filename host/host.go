// Package host models the compiled type system the scripting bridge
// reflects over: classes, script structs and interfaces, each exposing
// properties and functions addressable by name.
package host

// Kind identifies the category of a host type.
type Kind uint8

const (
	KindClass Kind = iota
	KindScriptStruct
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindScriptStruct:
		return "struct"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// Property is a data member of a host type.
type Property struct {
	name       string
	typeName   string
	offset     int
	deprecated bool
	outer      *Struct
}

func (p *Property) Name() string       { return p.name }
func (p *Property) TypeName() string   { return p.typeName }
func (p *Property) Offset() int        { return p.offset }
func (p *Property) IsDeprecated() bool { return p.deprecated }

// Outer returns the type that directly declares this property.
func (p *Property) Outer() *Struct { return p.outer }

// Param is one parameter of a Function. Default, when non-empty, is the
// literal substituted when a caller omits the argument.
type Param struct {
	Name    string
	Type    string
	Default string
}

// Function is a callable member of a host class.
type Function struct {
	name   string
	params []Param
	outer  *Struct
}

func (f *Function) Name() string    { return f.name }
func (f *Function) Params() []Param { return f.params }

// Outer returns the type that directly declares this function.
func (f *Function) Outer() *Struct { return f.outer }

// StructOps carries the compiled layout of a struct when it differs
// from the declared structural layout.
type StructOps struct {
	Size      int
	Alignment int
}

// Struct is a live host type. All three kinds share this
// representation; functions are only meaningful on classes.
type Struct struct {
	world      *World
	name       string
	prefix     byte // type-category prefix used in registry names, 0 if none
	kind       Kind
	native     bool
	super      *Struct
	size       int
	alignment  int
	ops        *StructOps
	interfaces []*Struct
	properties []*Property
	functions  []*Function
}

// Name returns the bare type name, without category prefix.
func (s *Struct) Name() string { return s.name }

// RegistryName returns the name the type is registered under on the
// scripting side: the category prefix (if any) followed by the name.
func (s *Struct) RegistryName() string {
	if s.prefix == 0 {
		return s.name
	}
	return string(s.prefix) + s.name
}

func (s *Struct) Kind() Kind     { return s.kind }
func (s *Struct) IsNative() bool { return s.native }
func (s *Struct) Size() int      { return s.size }
func (s *Struct) Alignment() int { return s.alignment }

// Ops returns the custom native operations of a struct, or nil when
// the declared structural layout applies.
func (s *Struct) Ops() *StructOps { return s.ops }

// Super returns the immediate ancestor in the native inheritance
// chain, or nil for a root type.
func (s *Struct) Super() *Struct { return s.super }

// Interfaces returns the interfaces this class implements directly.
func (s *Struct) Interfaces() []*Struct { return s.interfaces }

// DirectProperties returns the properties declared on this type
// itself, excluding inherited ones.
func (s *Struct) DirectProperties() []*Property { return s.properties }

// DirectFunctions returns the functions declared on this type itself.
func (s *Struct) DirectFunctions() []*Function { return s.functions }

// FindProperty looks up a data member by name, walking the
// inheritance chain. Returns nil if no such property exists.
func (s *Struct) FindProperty(name string) *Property {
	for t := s; t != nil; t = t.super {
		for _, p := range t.properties {
			if p.name == name {
				return p
			}
		}
	}
	return nil
}

// FindFunction looks up a callable member by name, walking the
// inheritance chain. Returns nil if no such function exists.
func (s *Struct) FindFunction(name string) *Function {
	for t := s; t != nil; t = t.super {
		for _, f := range t.functions {
			if f.name == name {
				return f
			}
		}
	}
	return nil
}

// IsChildOf reports whether other appears in this type's inheritance
// chain (a type is not a child of itself).
func (s *Struct) IsChildOf(other *Struct) bool {
	for t := s.super; t != nil; t = t.super {
		if t == other {
			return true
		}
	}
	return false
}

// AddProperty declares a data member on this type.
func (s *Struct) AddProperty(name, typeName string, offset int) *Property {
	p := &Property{name: name, typeName: typeName, offset: offset, outer: s}
	s.properties = append(s.properties, p)
	return p
}

// AddDeprecatedProperty declares a data member flagged deprecated.
// Deprecated properties are skipped by name recovery.
func (s *Struct) AddDeprecatedProperty(name, typeName string, offset int) *Property {
	p := s.AddProperty(name, typeName, offset)
	p.deprecated = true
	return p
}

// AddFunction declares a callable member on this class. Parameter
// defaults are harvested into the world's default-parameter tables.
func (s *Struct) AddFunction(name string, params ...Param) *Function {
	f := &Function{name: name, params: params, outer: s}
	s.functions = append(s.functions, f)
	if s.world != nil {
		s.world.harvestDefaults(s, f)
	}
	return f
}

// AddInterface records that this class implements iface.
func (s *Struct) AddInterface(iface *Struct) {
	s.interfaces = append(s.interfaces, iface)
}
