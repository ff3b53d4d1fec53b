package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNewRobotSet(t *testing.T) {
	t.Run("filters nulls and folds case", func(t *testing.T) {
		set := NewRobotSet([]*string{strptr("StompyA"), nil, strptr(" FETCH "), strptr(""), strptr("  ")})
		require.Equal(t, []string{"fetch", "stompya"}, set.Sorted())
	})

	t.Run("duplicate spellings collapse", func(t *testing.T) {
		set := NewRobotSet([]*string{strptr("r1"), strptr("R1"), strptr(" r1")})
		require.Len(t, set, 1)
	})
}

func TestRobotSet_Contains(t *testing.T) {
	set := NewRobotSet([]*string{strptr("StompyA")})
	require.True(t, set.Contains("stompya"))
	require.True(t, set.Contains(" STOMPYA "))
	require.False(t, set.Contains("fetch"))
}

func TestRobotSet_Equal(t *testing.T) {
	a := NewRobotSet([]*string{strptr("r1"), strptr("r2")})
	b := NewRobotSet([]*string{strptr("R2"), strptr("R1"), nil})
	c := NewRobotSet([]*string{strptr("r1")})

	require.True(t, a.Equal(b))
	require.True(t, b.Equal(a))
	require.False(t, a.Equal(c))
	require.False(t, c.Equal(a))
}
