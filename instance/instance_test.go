package instance

import (
	"testing"

	"github.com/opengm-go/gmvm/object"
	"github.com/opengm-go/gmvm/scope"
	"github.com/stretchr/testify/require"
)

func TestDirectory(t *testing.T) {
	d := NewDirectory()
	player := d.Create("obj_player", map[string]object.Object{"hp": object.NewInt(3)})
	enemy := d.Create("obj_enemy", nil)
	d.Create("obj_enemy", nil)

	require.Equal(t, FirstID, player.ID())
	require.Equal(t, FirstID+1, enemy.ID())
	require.Equal(t, "obj_player", player.Object())
	require.Equal(t, object.NewInt(3), player.Variables().Get("hp"))
	require.Equal(t, FirstID, player.Ref().ID())

	require.Equal(t, 3, d.Count())
	require.Equal(t, 2, d.CountOf("obj_enemy"))
	require.True(t, d.Exists(enemy.ID()))

	found, ok := d.Lookup(player.ID())
	require.True(t, ok)
	require.Equal(t, player.ID(), found.ID())

	require.True(t, d.Destroy(enemy.ID()))
	require.False(t, d.Destroy(enemy.ID()))
	require.False(t, d.Exists(enemy.ID()))
	_, ok = d.Lookup(enemy.ID())
	require.False(t, ok)

	all := d.All()
	require.Len(t, all, 2)
	require.Equal(t, FirstID, all[0].ID())
	require.Equal(t, FirstID+2, all[1].ID())
}

func TestInstanceSatisfiesResolver(t *testing.T) {
	d := NewDirectory()
	inst := d.Create("obj_player", nil)
	var r scope.Resolver
	ctx := scope.Context{Self: inst, Globals: scope.NewTable()}
	require.NoError(t, r.StoreInstance(inst, "speed", object.NewReal(1.5)))
	require.Equal(t, object.NewReal(1.5), r.Load("speed", ctx))
}
