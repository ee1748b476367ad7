package host

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/scriptbind/scriptbind/internal/schema"
)

// ParamDefaults maps parameter name to the default literal.
type ParamDefaults map[string]string

// FunctionDefaults is the per-class default-parameter table, keyed by
// function name. Absence of a table or an entry is a normal condition.
type FunctionDefaults struct {
	Functions map[string]ParamDefaults
}

// World is the live, mutable type universe: permanently-resident
// native types registered programmatically, plus script types loaded
// on demand from attached package directories.
//
// World methods are safe to call from the watcher goroutine; the
// descriptor cache built on top of it remains single-threaded.
type World struct {
	mu          sync.Mutex
	types       map[string]*Struct // bare name -> resident type
	sources     map[string]string  // script type name -> source file
	packageDirs []string
	loadedFiles map[string]bool

	defMu    sync.Mutex
	defaults map[string]*FunctionDefaults // registry name -> table

	ifaceRoot *Struct
	log       *logrus.Entry
}

// NewWorld creates an empty world containing only the universal
// interface marker type.
func NewWorld() *World {
	w := &World{
		types:       make(map[string]*Struct),
		sources:     make(map[string]string),
		loadedFiles: make(map[string]bool),
		defaults:    make(map[string]*FunctionDefaults),
		log:         logrus.WithField("component", "host"),
	}
	w.ifaceRoot = &Struct{world: w, name: "Interface", prefix: 'U', kind: KindInterface, native: true, alignment: 1}
	w.types[w.ifaceRoot.name] = w.ifaceRoot
	return w
}

// InterfaceRoot returns the universal interface marker type. Every
// interface descends from it; the marker itself is not an interface in
// the descriptor-cache sense.
func (w *World) InterfaceRoot() *Struct { return w.ifaceRoot }

// DefineClass registers a permanently-resident native class. Panics on
// a duplicate name; native registration is a startup-time contract.
func (w *World) DefineClass(name string, prefix byte, super *Struct, size int) *Struct {
	s := &Struct{world: w, name: name, prefix: prefix, kind: KindClass, native: true, super: super, size: size, alignment: 8}
	w.add(s)
	return s
}

// DefineScriptStruct registers a permanently-resident native struct.
// ops may be nil when the declared layout is authoritative.
func (w *World) DefineScriptStruct(name string, size, alignment int, ops *StructOps) *Struct {
	if alignment <= 0 {
		alignment = 1
	}
	s := &Struct{world: w, name: name, prefix: 'F', kind: KindScriptStruct, native: true, size: size, alignment: alignment, ops: ops}
	w.add(s)
	return s
}

// DefineInterface registers a native interface descending from the
// universal interface marker.
func (w *World) DefineInterface(name string) *Struct {
	s := &Struct{world: w, name: name, prefix: 'U', kind: KindInterface, native: true, super: w.ifaceRoot, alignment: 1}
	w.add(s)
	return s
}

func (w *World) add(s *Struct) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.types[s.name]; ok {
		panic(fmt.Sprintf("host: duplicate native type %q", s.name))
	}
	w.types[s.name] = s
}

// AttachPackageDir registers a directory of YAML type definitions as a
// source of loadable script types.
func (w *World) AttachPackageDir(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.packageDirs = append(w.packageDirs, dir)
}

// Find returns the resident type with the given bare name, or nil.
// It never touches persistent storage.
func (w *World) Find(name string) *Struct {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.types[name]
}

// Load resolves a type by bare name, loading script package files from
// attached directories as needed.
func (w *World) Load(name string) (*Struct, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s := w.types[name]; s != nil {
		return s, nil
	}
	if err := w.loadUntilLocked(name); err != nil {
		return nil, err
	}
	if s := w.types[name]; s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrTypeNotFound)
}

// LoadAll loads every definition file in the attached directories.
func (w *World) LoadAll() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadUntilLocked("")
}

// loadUntilLocked loads not-yet-loaded files until the named type
// becomes resident, or all files are exhausted. An empty name loads
// everything.
func (w *World) loadUntilLocked(name string) error {
	for _, dir := range w.packageDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("host: failed to read package dir: %w", err)
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ext := filepath.Ext(e.Name()); ext != ".yaml" && ext != ".yml" {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, fn := range names {
			path := filepath.Join(dir, fn)
			if w.loadedFiles[path] {
				continue
			}
			if err := w.loadFileLocked(path); err != nil {
				return err
			}
			if name != "" && w.types[name] != nil {
				return nil
			}
		}
	}
	return nil
}

func (w *World) loadFileLocked(path string) error {
	if w.loadedFiles[path] {
		return nil
	}
	w.loadedFiles[path] = true

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("host: failed to read package file: %w", err)
	}
	f, err := schema.Parse(data, filepath.Base(path))
	if err != nil {
		return err
	}

	pending := make(map[string]*schema.Type, len(f.Types))
	for i := range f.Types {
		pending[f.Types[i].Name] = &f.Types[i]
	}
	visiting := make(map[string]bool)
	for i := range f.Types {
		if _, err := w.instantiateLocked(&f.Types[i], pending, path, visiting); err != nil {
			return err
		}
	}

	w.log.WithFields(logrus.Fields{"file": path, "types": len(f.Types)}).Debug("loaded type package file")
	return nil
}

// resolveRefLocked resolves a type reference from a definition:
// resident types first, then definitions pending in the same file,
// then other not-yet-loaded files.
func (w *World) resolveRefLocked(name string, pending map[string]*schema.Type, path string, visiting map[string]bool) (*Struct, error) {
	if s := w.types[name]; s != nil {
		return s, nil
	}
	if def := pending[name]; def != nil {
		return w.instantiateLocked(def, pending, path, visiting)
	}
	if err := w.loadUntilLocked(name); err != nil {
		return nil, err
	}
	if s := w.types[name]; s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("host: unresolved type reference %q in %s: %w", name, path, ErrBadDefinition)
}

func (w *World) instantiateLocked(def *schema.Type, pending map[string]*schema.Type, path string, visiting map[string]bool) (*Struct, error) {
	if s := w.types[def.Name]; s != nil {
		if w.sources[def.Name] == path {
			return s, nil
		}
		return nil, fmt.Errorf("host: type %q in %s: %w", def.Name, path, ErrDuplicateType)
	}
	if visiting[def.Name] {
		return nil, fmt.Errorf("host: inheritance cycle at %q in %s: %w", def.Name, path, ErrBadDefinition)
	}
	visiting[def.Name] = true

	var super *Struct
	var err error
	switch def.Kind {
	case schema.KindInterface:
		super = w.ifaceRoot
	default:
		if def.Super != "" {
			if super, err = w.resolveRefLocked(def.Super, pending, path, visiting); err != nil {
				return nil, err
			}
		}
	}

	s := &Struct{
		world:  w,
		name:   def.Name,
		kind:   kindOf(def.Kind),
		super:  super,
		size:   def.Size,
		native: false,
	}
	s.prefix = prefixOf(def, super)
	s.alignment = def.Alignment
	if s.alignment <= 0 {
		s.alignment = 1
	}
	if def.Ops != nil {
		s.ops = &StructOps{Size: def.Ops.Size, Alignment: def.Ops.Alignment}
	}

	for _, pd := range def.Properties {
		p := s.AddProperty(pd.Name, pd.Type, pd.Offset)
		p.deprecated = pd.Deprecated
	}
	for _, fd := range def.Functions {
		params := make([]Param, len(fd.Params))
		for i, pd := range fd.Params {
			params[i] = Param{Name: pd.Name, Type: pd.Type, Default: pd.Default}
		}
		s.AddFunction(fd.Name, params...)
	}
	for _, iname := range def.Interfaces {
		iface, err := w.resolveRefLocked(iname, pending, path, visiting)
		if err != nil {
			return nil, err
		}
		if iface.kind != KindInterface {
			return nil, fmt.Errorf("host: %q implements non-interface %q in %s: %w", def.Name, iname, path, ErrBadDefinition)
		}
		s.AddInterface(iface)
	}

	w.types[def.Name] = s
	w.sources[def.Name] = path
	w.log.WithFields(logrus.Fields{"type": def.Name, "kind": def.Kind}).Trace("instantiated script type")
	return s, nil
}

func kindOf(k string) Kind {
	switch k {
	case schema.KindStruct:
		return KindScriptStruct
	case schema.KindInterface:
		return KindInterface
	default:
		return KindClass
	}
}

func prefixOf(def *schema.Type, super *Struct) byte {
	if def.Prefix != "" {
		return def.Prefix[0]
	}
	switch def.Kind {
	case schema.KindStruct:
		return 'F'
	case schema.KindInterface:
		return 'U'
	default:
		// classes follow their ancestor's naming convention
		if super != nil && super.prefix != 0 {
			return super.prefix
		}
		return 'U'
	}
}

// Unload drops a script type and every other type defined in the same
// source file (a file is the unit of loading). Returns the dropped
// types, or nil when the type is unknown or native.
func (w *World) Unload(name string) []*Struct {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.types[name]
	if s == nil || s.native {
		return nil
	}
	return w.invalidateFileLocked(w.sources[name])
}

// InvalidateFile drops every type loaded from the given file so a
// subsequent Load re-reads it. Used by hot reload.
func (w *World) InvalidateFile(path string) []*Struct {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.invalidateFileLocked(path)
}

func (w *World) invalidateFileLocked(path string) []*Struct {
	if path == "" {
		return nil
	}
	var dropped []*Struct
	for name, src := range w.sources {
		if src != path {
			continue
		}
		dropped = append(dropped, w.types[name])
		w.defMu.Lock()
		delete(w.defaults, w.types[name].RegistryName())
		w.defMu.Unlock()
		delete(w.types, name)
		delete(w.sources, name)
	}
	delete(w.loadedFiles, path)
	if len(dropped) > 0 {
		w.log.WithFields(logrus.Fields{"file": path, "types": len(dropped)}).Info("unloaded type package file")
	}
	return dropped
}

// InvalidateAll drops every script type loaded from every file, so
// the next Load re-reads the attached directories from scratch.
func (w *World) InvalidateAll() []*Struct {
	w.mu.Lock()
	defer w.mu.Unlock()

	var dropped []*Struct
	for path := range w.loadedFiles {
		dropped = append(dropped, w.invalidateFileLocked(path)...)
	}
	return dropped
}

// All returns an iterator over the resident types, in name order.
func (w *World) All() iter.Seq[*Struct] {
	return func(yield func(*Struct) bool) {
		w.mu.Lock()
		names := make([]string, 0, len(w.types))
		for name := range w.types {
			names = append(names, name)
		}
		sort.Strings(names)
		types := make([]*Struct, len(names))
		for i, name := range names {
			types[i] = w.types[name]
		}
		w.mu.Unlock()

		for _, s := range types {
			if !yield(s) {
				return
			}
		}
	}
}

// DefaultsFor returns the default-parameter table bound to the given
// registry name, or nil when the class declares no defaults.
func (w *World) DefaultsFor(registryName string) *FunctionDefaults {
	w.defMu.Lock()
	defer w.defMu.Unlock()
	return w.defaults[registryName]
}

func (w *World) harvestDefaults(s *Struct, f *Function) {
	var table ParamDefaults
	for _, p := range f.params {
		if p.Default == "" {
			continue
		}
		if table == nil {
			table = make(ParamDefaults)
		}
		table[p.Name] = p.Default
	}
	if table == nil {
		return
	}

	w.defMu.Lock()
	defer w.defMu.Unlock()
	fd := w.defaults[s.RegistryName()]
	if fd == nil {
		fd = &FunctionDefaults{Functions: make(map[string]ParamDefaults)}
		w.defaults[s.RegistryName()] = fd
	}
	fd.Functions[f.name] = table
}
