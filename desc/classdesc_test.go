package desc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptbind/scriptbind/host"
)

// newGameWorld builds a native three-level chain with an interface:
// Object <- Character <- Player, Character implementing Damageable.
func newGameWorld() *host.World {
	world := host.NewWorld()

	damageable := world.DefineInterface("Damageable")

	object := world.DefineClass("Object", 'U', nil, 48)
	object.AddFunction("GetName")

	character := world.DefineClass("Character", 'A', object, 1040)
	character.AddProperty("Health", "float", 16)
	character.AddFunction("TakeDamage",
		host.Param{Name: "Amount", Type: "float", Default: "10.0"},
		host.Param{Name: "Instigator", Type: "Object"},
	)
	character.AddInterface(damageable)

	world.DefineClass("Player", 'A', character, 1104)

	return world
}

func TestRegisterFieldIdempotent(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("ACharacter")
	require.NotNil(t, cd)

	first := cd.RegisterField("Health", cd)
	require.NotNil(t, first)
	second := cd.RegisterField("Health", cd)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cd.NumProperties())
	assert.Equal(t, 0, cd.NumFunctions())
}

func TestRegisterFieldDeclaringClass(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	player := registry.RegisterByName("APlayer")
	require.NotNil(t, player)

	fd := player.RegisterField("Health", player)
	require.NotNil(t, fd)

	character := registry.Find("ACharacter")
	require.NotNil(t, character)

	assert.Same(t, character, fd.OuterClass)
	assert.Same(t, player, fd.QueryClass)

	// the field lives on the declaring descriptor, not the derived one
	assert.Nil(t, player.fields["Health"])
	assert.Same(t, fd, character.fields["Health"])
	assert.Equal(t, 0, player.NumProperties())
	assert.Equal(t, 1, character.NumProperties())

	// the derived descriptor keeps redirecting to the same entry
	assert.Same(t, fd, player.RegisterField("Health", player))
}

func TestRegisterFieldIndexSign(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("ACharacter")
	require.NotNil(t, cd)

	prop := cd.RegisterField("Health", cd)
	require.NotNil(t, prop)
	assert.Positive(t, prop.FieldIndex)
	assert.True(t, prop.IsProperty())
	assert.False(t, prop.IsFunction())
	assert.Equal(t, "Health", cd.properties[prop.FieldIndex-1].Name())

	fn := cd.RegisterField("TakeDamage", cd)
	require.NotNil(t, fn)
	assert.Negative(t, fn.FieldIndex)
	assert.True(t, fn.IsFunction())
	assert.Equal(t, "TakeDamage", cd.functions[-fn.FieldIndex-1].Name())
}

func TestRegisterFieldAbsent(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("APlayer")
	require.NotNil(t, cd)

	assert.Nil(t, cd.RegisterField("NoSuchMember", cd))
	assert.Empty(t, cd.fields)
}

func TestRegisterFieldDefaults(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("ACharacter")
	require.NotNil(t, cd)

	fd := cd.RegisterField("TakeDamage", cd)
	require.NotNil(t, fd)

	f := fd.Function()
	require.NotNil(t, f)
	assert.True(t, f.HasDefaults())

	def, ok := f.DefaultFor("Amount")
	assert.True(t, ok)
	assert.Equal(t, "10.0", def)

	_, ok = f.DefaultFor("Instigator")
	assert.False(t, ok)
}

func TestFindFieldDoesNotRegister(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("ACharacter")
	require.NotNil(t, cd)

	assert.Nil(t, cd.FindField("Health"))

	fd := cd.RegisterField("Health", cd)
	assert.Same(t, fd, cd.FindField("Health"))
}

func TestInheritanceChainOrdering(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	player := registry.RegisterByName("APlayer")
	require.NotNil(t, player)

	chain := player.InheritanceChain()
	require.Len(t, chain, 3)
	assert.Equal(t, "APlayer", chain[0].Name())
	assert.Equal(t, "ACharacter", chain[1].Name())
	assert.Equal(t, "UObject", chain[2].Name())
}

func TestLoadUnloadRoundTrip(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("ACharacter")
	require.NotNil(t, cd)

	require.NotNil(t, cd.RegisterField("Health", cd))
	chainBefore := cd.InheritanceChain()

	cd.UnLoad()
	assert.Nil(t, cd.Struct())
	cd.Load()
	require.NotNil(t, cd.Struct())

	// registered fields are gone and must be re-registered
	assert.Nil(t, cd.FindField("Health"))
	assert.Equal(t, 0, cd.NumProperties())

	// the inheritance graph shape survives the cycle
	chainAfter := cd.InheritanceChain()
	require.Len(t, chainAfter, len(chainBefore))
	for i := range chainBefore {
		assert.Same(t, chainBefore[i], chainAfter[i])
	}

	// and registration works again on the reloaded type
	require.NotNil(t, cd.RegisterField("Health", cd))
}

func TestRefCount(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	cd := registry.RegisterByName("UObject")
	require.NotNil(t, cd)

	assert.Equal(t, 0, cd.RefCount())
	cd.AddRef()
	cd.AddRef()
	assert.Equal(t, 2, cd.RefCount())
	cd.SubRef()
	assert.Equal(t, 1, cd.RefCount())
}

func TestClassification(t *testing.T) {
	world := newGameWorld()
	world.DefineScriptStruct("Vector", 12, 4, nil)
	registry := NewRegistry(world)

	character := registry.RegisterByName("ACharacter")
	require.NotNil(t, character)
	assert.True(t, character.IsClass())
	assert.False(t, character.IsScriptStruct())
	assert.False(t, character.IsInterface())
	assert.True(t, character.IsNative())
	assert.Equal(t, 1040, character.Size())

	vector := registry.RegisterByName("FVector")
	require.NotNil(t, vector)
	assert.True(t, vector.IsScriptStruct())
	assert.False(t, vector.IsClass())

	damageable := registry.RegisterByName("UDamageable")
	require.NotNil(t, damageable)
	assert.True(t, damageable.IsInterface())
	assert.True(t, damageable.IsClass())

	// the universal marker type is not an interface itself
	marker := registry.RegisterByName("UInterface")
	require.NotNil(t, marker)
	assert.False(t, marker.IsInterface())
}

func TestInterfacePreWarm(t *testing.T) {
	registry := NewRegistry(newGameWorld())
	require.NotNil(t, registry.RegisterByName("ACharacter"))

	// registering the class eagerly resolves its interfaces
	assert.NotNil(t, registry.Find("UDamageable"))
}

func TestUserdataPadding(t *testing.T) {
	cases := []struct {
		alignment int
		want      int
	}{
		{1, 0},
		{4, 0},
		{8, 0},
		{16, 8},
		{32, 24},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, calcUserdataPadding(tc.alignment), "alignment %d", tc.alignment)
	}
}

func TestScriptStructOps(t *testing.T) {
	world := newGameWorld()
	world.DefineScriptStruct("Matrix", 60, 4, &host.StructOps{Size: 64, Alignment: 16})
	registry := NewRegistry(world)

	cd := registry.RegisterByName("FMatrix")
	require.NotNil(t, cd)

	// custom ops override the declared layout
	assert.Equal(t, 64, cd.Size())
	assert.Equal(t, 8, cd.UserdataPadding())
}

func TestEndToEnd(t *testing.T) {
	world := host.NewWorld()
	widget := world.DefineClass("Widget", 'U', nil, 64)
	widget.AddProperty("X", "int", 0)
	widget.AddProperty("Y", "int", 4)
	widget.AddProperty("Visible", "bool", 8)
	widget.AddFunction("Show")

	registry := NewRegistry(world)
	cd := registry.RegisterByType(widget)
	require.NotNil(t, cd)
	assert.Empty(t, cd.InheritanceChain()[1:])

	for _, name := range []string{"X", "Y", "Visible", "Show"} {
		require.NotNil(t, cd.RegisterField(name, cd), name)
	}

	assert.Len(t, cd.fields, 4)
	assert.Equal(t, 3, cd.NumProperties())
	assert.Equal(t, 1, cd.NumFunctions())

	for name, fd := range cd.fields {
		if fd.IsProperty() {
			assert.Equal(t, name, fd.Property().Name())
			assert.Same(t, cd.properties[fd.FieldIndex-1], fd.Property())
		} else {
			assert.Equal(t, name, fd.Function().Name())
			assert.Same(t, cd.functions[-fd.FieldIndex-1], fd.Function())
		}
	}
}

const recoveryPackage = `
types:
  - name: DamageInfo
    kind: struct
    size: 24
    alignment: 8
    properties:
      - name: Health_01234567890123456789012345678901_3
        type: float
        offset: 0
      - name: Armor_98765432109876543210987654321098_7
        type: float
        offset: 4
      - name: Dead_00000000000000000000000000000000_1
        type: bool
        offset: 8
        deprecated: true
`

func newRecoveryDesc(t *testing.T) *ClassDesc {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "damage.yaml"), []byte(recoveryPackage), 0o644))

	world := host.NewWorld()
	world.AttachPackageDir(dir)

	registry := NewRegistry(world)
	cd := registry.RegisterByName("FDamageInfo")
	require.NotNil(t, cd)
	require.True(t, cd.IsScriptStruct())
	require.False(t, cd.IsNative())
	return cd
}

func TestStructNameRecovery(t *testing.T) {
	cd := newRecoveryDesc(t)

	fd := cd.RegisterField("Health", cd)
	require.NotNil(t, fd)
	require.True(t, fd.IsProperty())
	assert.Equal(t, "Health_01234567890123456789012345678901_3", fd.Property().Name())

	require.NotNil(t, cd.RegisterField("Armor", cd))

	// an unrelated name stays absent
	assert.Nil(t, cd.RegisterField("Mana", cd))
}

func TestStructNameRecoverySkipsDeprecated(t *testing.T) {
	cd := newRecoveryDesc(t)
	assert.Nil(t, cd.RegisterField("Dead", cd))
}

func TestStructNameRecoveryExactNameWins(t *testing.T) {
	cd := newRecoveryDesc(t)

	// the live name always resolves directly
	fd := cd.RegisterField("Health_01234567890123456789012345678901_3", cd)
	require.NotNil(t, fd)
	assert.True(t, fd.IsProperty())
}

func TestNilTypePanics(t *testing.T) {
	registry := NewRegistry(host.NewWorld())
	assert.Panics(t, func() {
		cd := &ClassDesc{registry: registry, name: "UBroken"}
		cd.initialize(nil)
	})
}

func TestLoadUnknownTypePanics(t *testing.T) {
	registry := NewRegistry(host.NewWorld())
	cd := &ClassDesc{registry: registry, name: "UMissing"}
	assert.Panics(t, func() { cd.Load() })
}
