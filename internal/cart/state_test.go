package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateMutatorsReturnNewValues(t *testing.T) {
	empty := NewState(nil)
	one := empty.Add("a", 1)
	two := one.Add("a", 1)

	require.Equal(t, 0, empty.Len())
	require.Equal(t, 1, one.Quantity("a"))
	require.Equal(t, 2, two.Quantity("a"))

	removed := two.Remove("a")
	require.Equal(t, 0, removed.Len())
	require.Equal(t, 2, two.Quantity("a"))
}

func TestStateNonPositiveRemoves(t *testing.T) {
	st := NewState(map[string]int{"a": 2, "b": 1, "c": 0, "": 4})
	require.Equal(t, []string{"a", "b"}, st.ProductIDs())

	require.Equal(t, 0, st.Add("a", -2).Quantity("a"))
	require.Equal(t, 1, st.Add("a", -2).Len())
	require.Equal(t, 1, st.Set("b", 0).Len())
	require.Equal(t, 3, st.TotalQuantity())
}

func TestStateItemsIsACopy(t *testing.T) {
	st := NewState(map[string]int{"a": 1})
	items := st.Items()
	items["a"] = 99
	require.Equal(t, 1, st.Quantity("a"))
}

func TestStateAddSaturates(t *testing.T) {
	s := NewState(map[string]int{"a": 1}).Add("a", math.MaxInt)
	require.Equal(t, math.MaxInt, s.Quantity("a"))
	require.Equal(t, 1, s.Len())
}
