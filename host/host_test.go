package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPropertyWalksChain(t *testing.T) {
	world := NewWorld()
	object := world.DefineClass("Object", 'U', nil, 48)
	object.AddProperty("Name", "string", 0)
	pawn := world.DefineClass("Pawn", 'A', object, 256)
	pawn.AddProperty("Speed", "float", 64)

	p := pawn.FindProperty("Name")
	require.NotNil(t, p)
	assert.Same(t, object, p.Outer())

	p = pawn.FindProperty("Speed")
	require.NotNil(t, p)
	assert.Same(t, pawn, p.Outer())

	assert.Nil(t, pawn.FindProperty("Missing"))
	assert.Nil(t, object.FindProperty("Speed"))
}

func TestFindFunctionWalksChain(t *testing.T) {
	world := NewWorld()
	object := world.DefineClass("Object", 'U', nil, 48)
	object.AddFunction("GetName")
	pawn := world.DefineClass("Pawn", 'A', object, 256)

	f := pawn.FindFunction("GetName")
	require.NotNil(t, f)
	assert.Same(t, object, f.Outer())
	assert.Nil(t, pawn.FindFunction("Missing"))
}

func TestRegistryName(t *testing.T) {
	world := NewWorld()
	object := world.DefineClass("Object", 'U', nil, 48)
	vector := world.DefineScriptStruct("Vector", 12, 4, nil)
	iface := world.DefineInterface("Damageable")

	assert.Equal(t, "UObject", object.RegistryName())
	assert.Equal(t, "FVector", vector.RegistryName())
	assert.Equal(t, "UDamageable", iface.RegistryName())
	assert.Equal(t, "UInterface", world.InterfaceRoot().RegistryName())
}

func TestIsChildOf(t *testing.T) {
	world := NewWorld()
	object := world.DefineClass("Object", 'U', nil, 48)
	pawn := world.DefineClass("Pawn", 'A', object, 256)
	player := world.DefineClass("Player", 'A', pawn, 512)

	assert.True(t, player.IsChildOf(object))
	assert.True(t, player.IsChildOf(pawn))
	assert.False(t, player.IsChildOf(player))
	assert.False(t, object.IsChildOf(player))
}

func TestInterfacesDescendFromRoot(t *testing.T) {
	world := NewWorld()
	iface := world.DefineInterface("Damageable")

	assert.Equal(t, KindInterface, iface.Kind())
	assert.Same(t, world.InterfaceRoot(), iface.Super())
	assert.Nil(t, world.InterfaceRoot().Super())
}

func TestDuplicateNativePanics(t *testing.T) {
	world := NewWorld()
	world.DefineClass("Object", 'U', nil, 48)
	assert.Panics(t, func() { world.DefineClass("Object", 'U', nil, 48) })
}
