package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bili-app/bili-api/internal/domain"
)

func TestNewCatalogParsesEmbeddedContent(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	assert.True(t, catalog.HasContent("A1", domain.DirectionGermanToRussian))

	days := catalog.Days("A1", domain.DirectionGermanToRussian)
	require.NotEmpty(t, days)
	assert.Equal(t, 1, days[0])

	// Days come back sorted.
	for i := 1; i < len(days); i++ {
		assert.Greater(t, days[i], days[i-1])
	}
}

func TestForDayTagsItemsWithDay(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	items := catalog.ForDay("A1", domain.DirectionGermanToRussian, 1)
	require.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, 1, item.Day)
		assert.NoError(t, item.Validate())
	}
}

func TestForDayMissingContentReturnsEmpty(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	assert.Empty(t, catalog.ForDay("A1", domain.DirectionGermanToRussian, 9999))
	assert.Empty(t, catalog.ForDay("C2", domain.DirectionGermanToRussian, 1))
	assert.False(t, catalog.HasContent("C2", domain.DirectionGermanToRussian))
}

func TestMirroredDirectionIsDerived(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)

	require.True(t, catalog.HasContent("A1", domain.DirectionRussianToGerman))

	authored := catalog.ForDay("A1", domain.DirectionGermanToRussian, 1)
	mirrored := catalog.ForDay("A1", domain.DirectionRussianToGerman, 1)
	require.Equal(t, len(authored), len(mirrored))

	// The mirrored set swaps the sides of each entry.
	byFrom := make(map[string]domain.VocabularyItem, len(mirrored))
	for _, item := range mirrored {
		byFrom[item.From] = item
	}
	for _, item := range authored {
		counterpart, ok := byFrom[item.To]
		require.True(t, ok, "no mirrored entry for %q", item.To)
		assert.Equal(t, item.From, counterpart.To)
		assert.Equal(t, item.ExampleTo, counterpart.ExampleFrom)
		assert.Equal(t, item.ExampleFrom, counterpart.ExampleTo)
	}
}
