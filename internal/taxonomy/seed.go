package taxonomy

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fieldworks/jobsector/internal/types"
)

//go:embed seed.yaml
var seedYAML []byte

// seedCategory is the on-disk shape of one category. Context pairs are
// written as two-element lists for readability.
type seedCategory struct {
	ID               string     `yaml:"id"`
	Name             string     `yaml:"name"`
	Description      string     `yaml:"description,omitempty"`
	Color            string     `yaml:"color,omitempty"`
	CoreKeywords     []string   `yaml:"core_keywords"`
	SupportKeywords  []string   `yaml:"support_keywords"`
	ContextPairs     [][]string `yaml:"context_pairs,omitempty"`
	EmergingKeywords []string   `yaml:"emerging_keywords,omitempty"`
	WeakSignals      []string   `yaml:"weak_signals,omitempty"`
}

type seedFile struct {
	Fallback       string          `yaml:"fallback"`
	Categories     []seedCategory  `yaml:"categories"`
	HybridPatterns []HybridPattern `yaml:"hybrid_patterns,omitempty"`
}

// LoadSeed builds a store from the embedded seed taxonomy. The returned
// store can later be restored to this exact state via ResetToSeed.
func LoadSeed() (*Store, error) {
	return loadFromBytes(seedYAML)
}

// LoadFile builds a store from a taxonomy snapshot on disk (for example one
// previously written by ExportYAML). ResetToSeed still restores the embedded
// seed, not the loaded snapshot.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return loadFromBytes(data)
}

func loadFromBytes(data []byte) (*Store, error) {
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy YAML: %w", err)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	categories := make([]Category, 0, len(doc.Categories))
	for _, sc := range doc.Categories {
		pairs, err := listsToPairs(sc.ContextPairs)
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", sc.ID, err)
		}
		categories = append(categories, Category{
			ID:               sc.ID,
			Name:             sc.Name,
			Description:      sc.Description,
			Color:            sc.Color,
			CoreKeywords:     sc.CoreKeywords,
			SupportKeywords:  sc.SupportKeywords,
			ContextPairs:     pairs,
			EmergingKeywords: sc.EmergingKeywords,
			WeakSignals:      sc.WeakSignals,
		})
	}

	store, err := NewStore(categories, doc.Fallback, doc.HybridPatterns)
	if err != nil {
		return nil, err
	}
	store.reseed = LoadSeed
	return store, nil
}

func listsToPairs(lists [][]string) ([]types.KeywordPair, error) {
	var pairs []types.KeywordPair
	for _, l := range lists {
		if len(l) != 2 {
			return nil, fmt.Errorf("context pair must have exactly two members, got %d", len(l))
		}
		pairs = append(pairs, types.KeywordPair{First: l[0], Second: l[1]})
	}
	return pairs, nil
}

func pairsToLists(pairs []types.KeywordPair) [][]string {
	var lists [][]string
	for _, p := range pairs {
		lists = append(lists, []string{p.First, p.Second})
	}
	return lists
}
