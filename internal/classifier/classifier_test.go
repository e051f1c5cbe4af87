package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/taxonomy"
	"github.com/fieldworks/jobsector/internal/types"
)

func testStore(t *testing.T) *taxonomy.Store {
	t.Helper()
	store, err := taxonomy.NewStore([]taxonomy.Category{
		{
			ID:               "energy-utilities",
			Name:             "Energy & Utilities",
			CoreKeywords:     []string{"solar", "wind turbine"},
			SupportKeywords:  []string{"battery"},
			ContextPairs:     []types.KeywordPair{{First: "offshore", Second: "wind"}},
			EmergingKeywords: []string{"heat pump"},
			WeakSignals:      []string{"power"},
		},
		{
			ID:           "digital-technology",
			Name:         "Digital & Technology",
			CoreKeywords: []string{"software"},
		},
		{
			ID:           "health-medical",
			Name:         "Health & Medical",
			CoreKeywords: []string{"nurse", "clinical"},
		},
		{
			ID:   "general-other",
			Name: "General / Other",
		},
	}, "general-other", []taxonomy.HybridPattern{
		{Name: "Digital Health", CategoryA: "digital-technology", CategoryB: "health-medical"},
	})
	require.NoError(t, err)
	return store
}

func TestClassify_EmptyJobFallsBack(t *testing.T) {
	store := testStore(t)

	result := Classify(types.JobPosting{}, store, config.DefaultThresholds())

	assert.Equal(t, "general-other", result.Primary)
	assert.Equal(t, 0, result.Confidence)
	assert.True(t, result.Flags.LowConfidence)
	assert.NotEmpty(t, result.Reasoning)
}

func TestClassify_NoMatchFallsBack(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{Title: "Llama Whisperer", Description: "purple llamas only"}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "general-other", result.Primary)
	assert.Equal(t, 0, result.Confidence)
	assert.True(t, result.Flags.LowConfidence)
}

func TestClassify_TitleCoreMatch(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{Title: "Solar Installer"}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "energy-utilities", result.Primary)
	// core (10) x title field (3) x title boost (1.5) = 45 raw, normalized to 64
	assert.Equal(t, 64, result.Confidence)
	require.NotEmpty(t, result.Reasoning)
	assert.Contains(t, result.Reasoning[0], `"solar"`)
	assert.Contains(t, result.Reasoning[0], "title")
}

func TestClassify_KeywordCountedOnceAtStrongestField(t *testing.T) {
	store := testStore(t)
	th := config.DefaultThresholds()

	titleOnly := Classify(types.JobPosting{Title: "Solar Installer"}, store, th)
	both := Classify(types.JobPosting{Title: "Solar Installer", Description: "solar panels"}, store, th)

	assert.Equal(t, titleOnly.Confidence, both.Confidence)
}

func TestClassify_ContextPairBonus(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{Description: "offshore wind farm maintenance"}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "energy-utilities", result.Primary)
	// pair bonus (8) alone: normalized to 24, under the low-confidence floor
	assert.Equal(t, 24, result.Confidence)
	assert.True(t, result.Flags.LowConfidence)
}

func TestClassify_Deterministic(t *testing.T) {
	store := testStore(t)
	th := config.DefaultThresholds()

	job := types.JobPosting{
		Title:       "Registered Nurse",
		Description: "clinical software for patient rosters, solar powered wards",
		JobLabels:   "healthcare, nursing",
	}

	first := Classify(job, store, th)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(job, store, th))
	}
}

func TestClassify_ConfidenceBounds(t *testing.T) {
	store := testStore(t)
	th := config.DefaultThresholds()

	jobs := []types.JobPosting{
		{},
		{Title: "Solar"},
		{Title: "Solar solar wind turbine", Description: "battery solar power offshore wind", JobLabels: "solar"},
		{Description: "nothing relevant here"},
	}
	for _, job := range jobs {
		result := Classify(job, store, th)
		assert.GreaterOrEqual(t, result.Confidence, 0)
		assert.LessOrEqual(t, result.Confidence, 100)
		for _, sec := range result.Secondary {
			assert.GreaterOrEqual(t, sec.Confidence, 0)
			assert.LessOrEqual(t, sec.Confidence, 100)
		}
	}
}

func TestClassify_TieBreaksByDeclarationOrder(t *testing.T) {
	store := testStore(t)

	// "software" and "clinical" are single core matches in the description,
	// so digital-technology and health-medical score identically.
	job := types.JobPosting{Description: "software clinical"}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "digital-technology", result.Primary)
	require.NotEmpty(t, result.Secondary)
	assert.Equal(t, "health-medical", result.Secondary[0].CategoryID)
	assert.True(t, result.Flags.Ambiguous)
}

func TestClassify_HybridCandidate(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{Description: "software clinical"}
	result := Classify(job, store, config.DefaultThresholds())

	assert.True(t, result.Flags.HybridCandidate)
	assert.Equal(t, "Digital Health", result.Flags.HybridPattern)
}

func TestClassify_EmergingTerms(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{
		Title:       "Solar Engineer",
		Description: "blockchain settlement for blockchain energy trading",
	}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "energy-utilities", result.Primary)
	assert.Contains(t, result.Flags.EmergingTerms, "blockchain")
}

func TestClassify_EmergingTermsOnNoMatch(t *testing.T) {
	store := testStore(t)

	job := types.JobPosting{
		Title:       "Quokka Wrangler",
		Description: "quokka enclosure upkeep and quokka welfare checks",
	}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "general-other", result.Primary)
	assert.Equal(t, 0, result.Confidence)
	assert.Contains(t, result.Flags.EmergingTerms, "quokka")
}

func TestClassify_SeedDigitalHealthScenario(t *testing.T) {
	store, err := taxonomy.LoadSeed()
	require.NoError(t, err)

	job := types.JobPosting{
		Title:       "Software Engineer, Digital Health Platform",
		Description: "Machine learning over electronic health records.",
	}
	result := Classify(job, store, config.DefaultThresholds())

	assert.Equal(t, "digital-technology", result.Primary)
	require.NotEmpty(t, result.Secondary)
	assert.Equal(t, "health-medical", result.Secondary[0].CategoryID)
	assert.False(t, result.Flags.Ambiguous)
	assert.True(t, result.Flags.HybridCandidate)
	assert.Equal(t, "Digital Health", result.Flags.HybridPattern)
}

func TestMatchedKeywords(t *testing.T) {
	store := testStore(t)
	cat, ok := store.Get("energy-utilities")
	require.True(t, ok)

	job := types.JobPosting{Title: "Solar technician", Description: "battery storage upkeep"}
	matched := MatchedKeywords(job, cat)

	assert.ElementsMatch(t, []string{"solar", "battery"}, matched)
}

func TestNormalizeConfidence(t *testing.T) {
	assert.Equal(t, 0, normalizeConfidence(0))
	assert.Equal(t, 0, normalizeConfidence(-5))
	// raw equal to the halfpoint normalizes to 50
	assert.Equal(t, 50, normalizeConfidence(25))
	assert.LessOrEqual(t, normalizeConfidence(100000), 100)
}
