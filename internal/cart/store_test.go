package cart

import (
	"testing"

	"github.com/opencounter/pos/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(identity string, price string) domain.CartEntry {
	return domain.CartEntry{
		Identity:  identity,
		ProductID: 1,
		Name:      "Filter Coffee",
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestStore_AddMergesSameIdentity(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(entry("1", "20"), 1))
	require.NoError(t, s.Add(entry("1", "20"), 2))
	require.NoError(t, s.Add(entry("1", "20"), 4))

	items := s.Items()
	require.Len(t, items, 1, "repeated adds must not duplicate the row")
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, 7, s.Count())
}

func TestStore_AddValidation(t *testing.T) {
	s := NewStore()

	err := s.Add(entry("", "10"), 1)
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)

	err = s.Add(entry("1", "10"), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = s.Add(entry("1", "10"), -3)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.Empty(t, s.Items(), "rejected adds must not touch the cart")
}

func TestStore_RemoveAbsentIsNoop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("1", "10"), 1))

	s.Remove("does-not-exist")

	assert.Equal(t, 1, s.Count())
}

func TestStore_SetQuantityZeroEquivalentToRemove(t *testing.T) {
	viaRemove := NewStore()
	viaSet := NewStore()

	for _, s := range []*Store{viaRemove, viaSet} {
		require.NoError(t, s.Add(entry("7", "5.50"), 3))
	}

	viaRemove.Remove("7")
	viaSet.SetQuantity("7", 0)

	for _, s := range []*Store{viaRemove, viaSet} {
		_, ok := s.Get("7")
		assert.False(t, ok)
		assert.Equal(t, 0, s.Count())
		assert.True(t, s.Total().IsZero())
	}
}

func TestStore_SetQuantityIsAbsolute(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("1", "10"), 5))

	s.SetQuantity("1", 2)

	item, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)

	// Absent identity: silent no-op by policy.
	s.SetQuantity("99", 4)
	assert.Equal(t, 2, s.Count())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("1", "10"), 2))
	require.NoError(t, s.Add(entry("2", "4"), 1))

	s.Clear()
	s.Clear()

	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Total().IsZero())
	assert.Empty(t, s.Items())

	// The store must stay usable after clearing.
	require.NoError(t, s.Add(entry("1", "10"), 1))
	assert.Equal(t, 1, s.Count())
}

func TestStore_TotalsFixture(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("a", "10.00"), 2))
	require.NoError(t, s.Add(entry("b", "5.50"), 3))

	assert.True(t, s.Total().Equal(decimal.RequireFromString("36.50")),
		"got %s", s.Total())
	assert.Equal(t, 5, s.Count())
}

func TestStore_AddIncreaseRemoveScenario(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(entry("1", "20"), 1))
	item, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, s.Total().Equal(decimal.NewFromInt(20)))

	require.NoError(t, s.Add(entry("1", "20"), 2))
	item, _ = s.Get("1")
	assert.Equal(t, 3, item.Quantity)
	require.Len(t, s.Items(), 1)

	s.SetQuantity("1", 0)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.Count())
}

func TestStore_AvailableToAdd(t *testing.T) {
	s := NewStore()

	assert.Equal(t, 10, s.AvailableToAdd(10, "v1"), "empty cart reserves nothing")

	require.NoError(t, s.Add(entry("v1", "99"), 3))
	assert.Equal(t, 7, s.AvailableToAdd(10, "v1"))

	s.Remove("v1")
	assert.Equal(t, 10, s.AvailableToAdd(10, "v1"), "removal releases the reservation")
}

func TestStore_AvailableToAddNeverNegative(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("v1", "1"), 12))

	assert.Equal(t, 0, s.AvailableToAdd(10, "v1"), "reserved beyond stock floors at zero")
	assert.Equal(t, 0, s.AvailableToAdd(0, "v1"))
	assert.Equal(t, 0, s.AvailableToAdd(-5, "v1"), "negative server stock treated as zero")
	assert.Equal(t, 0, s.AvailableToAdd(-5, "other"))
}

func TestStore_ReservedZeroWhenAbsent(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Reserved("nope"))

	require.NoError(t, s.Add(entry("1", "10"), 4))
	assert.Equal(t, 4, s.Reserved("1"))
}

func TestStore_ItemsSnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("1", "10"), 1))

	items := s.Items()
	items[0].Quantity = 100

	item, _ := s.Get("1")
	assert.Equal(t, 1, item.Quantity, "mutating the snapshot must not leak into the store")
}

func TestStore_InsertionOrderPreservedAcrossRemoval(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(entry("a", "1"), 1))
	require.NoError(t, s.Add(entry("b", "2"), 1))
	require.NoError(t, s.Add(entry("c", "3"), 1))

	s.Remove("b")

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Identity)
	assert.Equal(t, "c", items[1].Identity)

	// Reindexing after removal must keep lookups working.
	s.SetQuantity("c", 5)
	item, ok := s.Get("c")
	require.True(t, ok)
	assert.Equal(t, 5, item.Quantity)
}
