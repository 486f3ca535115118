package demos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	isMain, err := Plan(0)
	require.NoError(t, err)
	assert.True(t, isMain, "first demo becomes main")

	for existing := 1; existing < MaxPerArtist; existing++ {
		isMain, err := Plan(existing)
		require.NoError(t, err)
		assert.False(t, isMain)
	}

	_, err = Plan(MaxPerArtist)
	assert.ErrorIs(t, err, ErrLimit)
}

func TestNextMain(t *testing.T) {
	assert.Nil(t, NextMain(nil))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	remaining := []Demo{
		{ID: "late", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "early", CreatedAt: base},
		{ID: "mid", CreatedAt: base.Add(time.Hour)},
	}
	next := NextMain(remaining)
	require.NotNil(t, next)
	assert.Equal(t, "early", next.ID)
	assert.Equal(t, "late", remaining[0].ID, "input order untouched")
}

func TestSortForDisplay(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []Demo{
		{ID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "main", IsMain: true, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "a", CreatedAt: base},
	}
	SortForDisplay(list)
	assert.Equal(t, "main", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}
