package taxonomy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/jobsector/internal/types"
)

func testCategories() []Category {
	return []Category{
		{
			ID:              "energy-utilities",
			Name:            "Energy & Utilities",
			CoreKeywords:    []string{"solar", "wind turbine"},
			SupportKeywords: []string{"energy", "battery"},
			EmergingKeywords: []string{
				"heat pump",
			},
			WeakSignals: []string{"power"},
		},
		{
			ID:           "digital-technology",
			Name:         "Digital & Technology",
			CoreKeywords: []string{"software", "developer"},
		},
		{
			ID:   "general-other",
			Name: "General / Other",
		},
	}
}

func testPatterns() []HybridPattern {
	return []HybridPattern{
		{Name: "Clean Tech", CategoryA: "energy-utilities", CategoryB: "digital-technology"},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testCategories(), "general-other", testPatterns())
	require.NoError(t, err)
	return store
}

func TestNewStore_RejectsDuplicateIDs(t *testing.T) {
	cats := testCategories()
	cats = append(cats, Category{ID: "energy-utilities"})

	_, err := NewStore(cats, "general-other", nil)
	assert.Error(t, err)
}

func TestNewStore_RejectsUnknownFallback(t *testing.T) {
	_, err := NewStore(testCategories(), "nope", nil)
	require.Error(t, err)

	var unknownErr *ErrUnknownCategory
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "nope", unknownErr.CategoryID)
}

func TestNewStore_RejectsPatternWithUnknownCategory(t *testing.T) {
	patterns := []HybridPattern{{Name: "Bad", CategoryA: "energy-utilities", CategoryB: "missing"}}
	_, err := NewStore(testCategories(), "general-other", patterns)
	assert.Error(t, err)
}

func TestCategories_PreservesDeclarationOrder(t *testing.T) {
	store := newTestStore(t)

	cats := store.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "energy-utilities", cats[0].ID)
	assert.Equal(t, "digital-technology", cats[1].ID)
	assert.Equal(t, "general-other", cats[2].ID)
}

func TestCategories_ReturnsDeepCopies(t *testing.T) {
	store := newTestStore(t)

	snapshot := store.Categories()
	snapshot[0].CoreKeywords[0] = "mutated"

	fresh, ok := store.Get("energy-utilities")
	require.True(t, ok)
	assert.Equal(t, "solar", fresh.CoreKeywords[0])
}

func TestHybridPattern_MatchesEitherOrder(t *testing.T) {
	p := HybridPattern{Name: "Clean Tech", CategoryA: "a", CategoryB: "b"}

	assert.True(t, p.Matches("a", "b"))
	assert.True(t, p.Matches("b", "a"))
	assert.False(t, p.Matches("a", "c"))
}

func TestApplyUpdate_AddsKeywords(t *testing.T) {
	store := newTestStore(t)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := store.ApplyUpdate(types.DictionaryUpdate{
		CategoryID:         "energy-utilities",
		NewCoreKeywords:    []string{"photovoltaic"},
		NewSupportKeywords: []string{"inverter"},
		NewContextPairs:    []types.KeywordPair{{First: "offshore", Second: "wind"}},
		Timestamp:          ts,
	})
	require.NoError(t, err)

	cat, ok := store.Get("energy-utilities")
	require.True(t, ok)
	assert.Contains(t, cat.CoreKeywords, "photovoltaic")
	assert.Contains(t, cat.SupportKeywords, "inverter")
	assert.True(t, cat.HasPair(types.KeywordPair{First: "wind", Second: "offshore"}))
	assert.Equal(t, ts, cat.LastUpdated)
}

func TestApplyUpdate_SkipsExistingKeywords(t *testing.T) {
	store := newTestStore(t)

	err := store.ApplyUpdate(types.DictionaryUpdate{
		CategoryID:         "energy-utilities",
		NewCoreKeywords:    []string{"solar"},
		NewSupportKeywords: []string{"energy", "solar"},
	})
	require.NoError(t, err)

	cat, _ := store.Get("energy-utilities")
	assert.Equal(t, []string{"solar", "wind turbine"}, cat.CoreKeywords)
	assert.Equal(t, []string{"energy", "battery"}, cat.SupportKeywords)
	// Nothing changed, so the timestamp stays zero
	assert.True(t, cat.LastUpdated.IsZero())
}

func TestApplyUpdate_PromotionRemovesLowerTiers(t *testing.T) {
	store := newTestStore(t)

	err := store.ApplyUpdate(types.DictionaryUpdate{
		CategoryID:         "energy-utilities",
		NewSupportKeywords: []string{"heat pump", "power"},
	})
	require.NoError(t, err)

	cat, _ := store.Get("energy-utilities")
	assert.Contains(t, cat.SupportKeywords, "heat pump")
	assert.Contains(t, cat.SupportKeywords, "power")
	assert.NotContains(t, cat.EmergingKeywords, "heat pump")
	assert.NotContains(t, cat.WeakSignals, "power")
}

func TestApplyUpdate_UnknownCategory(t *testing.T) {
	store := newTestStore(t)

	err := store.ApplyUpdate(types.DictionaryUpdate{CategoryID: "missing"})
	var unknownErr *ErrUnknownCategory
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "missing", unknownErr.CategoryID)
}

func TestLoadSeed_ParsesEmbeddedTaxonomy(t *testing.T) {
	store, err := LoadSeed()
	require.NoError(t, err)

	cats := store.Categories()
	assert.NotEmpty(t, cats)
	assert.Equal(t, "general-other", store.FallbackID())
	assert.True(t, store.Has("digital-technology"))
	assert.True(t, store.Has("health-medical"))
	assert.NotEmpty(t, store.HybridPatterns())
}

func TestResetToSeed_DiscardsLearnedKeywords(t *testing.T) {
	store, err := LoadSeed()
	require.NoError(t, err)

	require.NoError(t, store.ApplyUpdate(types.DictionaryUpdate{
		CategoryID:      "energy-utilities",
		NewCoreKeywords: []string{"learned-term"},
	}))
	cat, _ := store.Get("energy-utilities")
	require.Contains(t, cat.CoreKeywords, "learned-term")

	require.NoError(t, store.ResetToSeed())

	cat, _ = store.Get("energy-utilities")
	assert.NotContains(t, cat.CoreKeywords, "learned-term")
}

func TestResetToSeed_WithoutSeed(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.ResetToSeed())
}

func TestExportYAML_RoundTrips(t *testing.T) {
	store, err := LoadSeed()
	require.NoError(t, err)

	require.NoError(t, store.ApplyUpdate(types.DictionaryUpdate{
		CategoryID:         "energy-utilities",
		NewSupportKeywords: []string{"electrolyser"},
	}))

	data, err := store.ExportYAML()
	require.NoError(t, err)

	reloaded, err := loadFromBytes(data)
	require.NoError(t, err)

	cat, ok := reloaded.Get("energy-utilities")
	require.True(t, ok)
	assert.Contains(t, cat.SupportKeywords, "electrolyser")
	assert.Equal(t, store.FallbackID(), reloaded.FallbackID())
}
