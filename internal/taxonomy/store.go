package taxonomy

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fieldworks/jobsector/internal/types"
)

// HybridPattern names a known cross-category job type, e.g. Digital Health
// spanning digital-technology and health-medical.
type HybridPattern struct {
	Name      string `json:"name" yaml:"name"`
	CategoryA string `json:"category_a" yaml:"category_a"`
	CategoryB string `json:"category_b" yaml:"category_b"`
}

// Matches reports whether the two category ids form this pattern, in either order.
func (p HybridPattern) Matches(a, b string) bool {
	return (p.CategoryA == a && p.CategoryB == b) || (p.CategoryA == b && p.CategoryB == a)
}

// ErrUnknownCategory indicates a category id that is not in the taxonomy.
type ErrUnknownCategory struct {
	CategoryID string
}

func (e *ErrUnknownCategory) Error() string {
	return fmt.Sprintf("unknown category: %s", e.CategoryID)
}

// Store holds the category taxonomy. Reads may proceed concurrently;
// mutations are serialized, and one category's keyword-set mutation is the
// unit of atomicity.
type Store struct {
	mu         sync.RWMutex
	categories []*Category // declaration order, used for deterministic tie-breaks
	index      map[string]*Category
	fallbackID string
	patterns   []HybridPattern
	reseed     func() (*Store, error)
}

// NewStore builds a store from an already-parsed seed. Category declaration
// order is preserved.
func NewStore(categories []Category, fallbackID string, patterns []HybridPattern) (*Store, error) {
	s := &Store{
		index:      make(map[string]*Category, len(categories)),
		fallbackID: fallbackID,
		patterns:   patterns,
	}
	for i := range categories {
		c := categories[i].clone()
		if c.ID == "" {
			return nil, fmt.Errorf("category %d has no id", i)
		}
		if _, dup := s.index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id: %s", c.ID)
		}
		s.categories = append(s.categories, &c)
		s.index[c.ID] = &c
	}
	if _, ok := s.index[fallbackID]; !ok {
		return nil, &ErrUnknownCategory{CategoryID: fallbackID}
	}
	for _, p := range patterns {
		if _, ok := s.index[p.CategoryA]; !ok {
			return nil, &ErrUnknownCategory{CategoryID: p.CategoryA}
		}
		if _, ok := s.index[p.CategoryB]; !ok {
			return nil, &ErrUnknownCategory{CategoryID: p.CategoryB}
		}
	}
	return s, nil
}

// Categories returns a deep-copied snapshot of all categories in declaration
// order. Classification runs against such a snapshot, so it is deterministic
// for a fixed taxonomy state.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.clone()
	}
	return out
}

// Get returns a copy of one category.
func (s *Store) Get(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.index[id]
	if !ok {
		return Category{}, false
	}
	return c.clone(), true
}

// Has reports whether the category id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// FallbackID returns the designated fallback category for jobs with no
// classifiable text.
func (s *Store) FallbackID() string {
	return s.fallbackID
}

// HybridPatterns returns the registered cross-category patterns.
func (s *Store) HybridPatterns() []HybridPattern {
	return append([]HybridPattern(nil), s.patterns...)
}

// ApplyUpdate appends the update's keywords and pairs to the target category
// under the write lock. Terms already present in the core or support tier are
// skipped; terms promoted out of the emerging or weak-signal tiers are
// removed there so no term is duplicated across tiers. The category's
// LastUpdated timestamp is refreshed when anything changed.
func (s *Store) ApplyUpdate(update types.DictionaryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.index[update.CategoryID]
	if !ok {
		return &ErrUnknownCategory{CategoryID: update.CategoryID}
	}

	changed := false
	for _, kw := range update.NewCoreKeywords {
		if c.HasKeyword(kw) {
			continue
		}
		c.CoreKeywords = append(c.CoreKeywords, kw)
		c.EmergingKeywords = removeString(c.EmergingKeywords, kw)
		c.WeakSignals = removeString(c.WeakSignals, kw)
		changed = true
	}
	for _, kw := range update.NewSupportKeywords {
		if c.HasKeyword(kw) {
			continue
		}
		c.SupportKeywords = append(c.SupportKeywords, kw)
		c.EmergingKeywords = removeString(c.EmergingKeywords, kw)
		c.WeakSignals = removeString(c.WeakSignals, kw)
		changed = true
	}
	for _, pair := range update.NewContextPairs {
		if c.HasPair(pair) {
			continue
		}
		c.ContextPairs = append(c.ContextPairs, pair)
		changed = true
	}

	if changed {
		if !update.Timestamp.IsZero() {
			c.LastUpdated = update.Timestamp
		} else {
			c.LastUpdated = time.Now().UTC()
		}
	}
	return nil
}

// ResetToSeed restores the original seed taxonomy, discarding every learned
// keyword. The reset is all-or-nothing: on error the store is untouched.
func (s *Store) ResetToSeed() error {
	if s.reseed == nil {
		return fmt.Errorf("store has no seed to reset to")
	}
	fresh, err := s.reseed()
	if err != nil {
		return fmt.Errorf("failed to rebuild seed taxonomy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = fresh.categories
	s.index = fresh.index
	s.fallbackID = fresh.fallbackID
	s.patterns = fresh.patterns
	return nil
}

// ExportYAML serializes the full taxonomy (including learned keywords) to the
// same YAML shape the seed ships in, so mutations are human-diffable against
// the seed file.
func (s *Store) ExportYAML() ([]byte, error) {
	s.mu.RLock()
	doc := seedFile{
		Fallback:       s.fallbackID,
		HybridPatterns: append([]HybridPattern(nil), s.patterns...),
	}
	for _, c := range s.categories {
		doc.Categories = append(doc.Categories, seedCategory{
			ID:               c.ID,
			Name:             c.Name,
			Description:      c.Description,
			Color:            c.Color,
			CoreKeywords:     append([]string(nil), c.CoreKeywords...),
			SupportKeywords:  append([]string(nil), c.SupportKeywords...),
			ContextPairs:     pairsToLists(c.ContextPairs),
			EmergingKeywords: append([]string(nil), c.EmergingKeywords...),
			WeakSignals:      append([]string(nil), c.WeakSignals...),
		})
	}
	s.mu.RUnlock()

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal taxonomy: %w", err)
	}
	return out, nil
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
