// Package learning converts reviewer feedback into taxonomy mutations,
// subject to statistical-support and specificity guards, and keeps an
// auditable action log.
package learning

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldworks/jobsector/internal/classifier"
	"github.com/fieldworks/jobsector/internal/config"
	"github.com/fieldworks/jobsector/internal/taxonomy"
	"github.com/fieldworks/jobsector/internal/textproc"
	"github.com/fieldworks/jobsector/internal/types"
)

// pairCandidateLimit caps how many extracted keywords are combined into
// context-pair candidates per job.
const pairCandidateLimit = 6

// Engine is the online-learning subsystem. All mutation paths are serialized
// behind one mutex; the taxonomy store additionally guards itself, so
// concurrent classification reads never observe a partial category update.
type Engine struct {
	mu      sync.Mutex
	store   *taxonomy.Store
	th      config.Thresholds
	tracker *supportTracker

	processed     map[string]bool                   // feedback ids already consumed
	reinforcement map[string]map[string]float64     // category id -> keyword -> weight
	pending       map[string]types.DictionaryUpdate // pending updates keyed by category|term
	suggested     map[string]bool                   // distinct category|term that reached the suggestion bar

	actions []types.LearningAction
	applied []types.DictionaryUpdate
	issues  []string

	totalFeedback int
	confirmed     map[string]int // original primary confirmed by reviewer
	correctedFrom map[string]int // original primary overturned by reviewer
	correctedTo   map[string]int // target category of corrections

	onApply func(types.DictionaryUpdate)
}

// NewEngine creates a learning engine bound to a taxonomy store.
func NewEngine(store *taxonomy.Store, th config.Thresholds) *Engine {
	return &Engine{
		store:         store,
		th:            th,
		tracker:       newSupportTracker(),
		processed:     make(map[string]bool),
		reinforcement: make(map[string]map[string]float64),
		pending:       make(map[string]types.DictionaryUpdate),
		suggested:     make(map[string]bool),
		confirmed:     make(map[string]int),
		correctedFrom: make(map[string]int),
		correctedTo:   make(map[string]int),
	}
}

// SetApplyHook registers a callback invoked after a dictionary update has
// been committed to the taxonomy. The hook runs outside the engine lock.
func (e *Engine) SetApplyHook(hook func(types.DictionaryUpdate)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onApply = hook
}

// ProcessFeedback consumes one feedback item. Corrections feed candidate
// keywords through the support/specificity gates and may mutate the
// taxonomy; confirmations reinforce the keywords that matched.
// Re-processing the same feedback id is a no-op.
func (e *Engine) ProcessFeedback(fb types.JobFeedback) ([]types.LearningAction, error) {
	actions, appliedUpdates, err := e.process(fb)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	hook := e.onApply
	e.mu.Unlock()
	if hook != nil {
		for _, u := range appliedUpdates {
			hook(u)
		}
	}
	return actions, nil
}

func (e *Engine) process(fb types.JobFeedback) ([]types.LearningAction, []types.DictionaryUpdate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if fb.ID == "" {
		return nil, nil, fmt.Errorf("feedback has no id")
	}
	if e.processed[fb.ID] {
		return nil, nil, nil
	}

	target := fb.Correction.CorrectedPrimary
	if !e.store.Has(target) {
		// Stale reference, e.g. taxonomy reset after feedback was queued.
		// Skip the item but never fail the batch.
		e.processed[fb.ID] = true
		e.issues = append(e.issues,
			fmt.Sprintf("feedback %s skipped: unknown category %q", fb.ID, target))
		return nil, nil, nil
	}

	e.processed[fb.ID] = true
	e.totalFeedback++

	var actions []types.LearningAction
	var appliedUpdates []types.DictionaryUpdate
	if fb.IsConfirmation() {
		actions = e.processConfirmation(fb)
	} else {
		actions, appliedUpdates = e.processCorrection(fb)
	}

	e.actions = append(e.actions, actions...)
	return actions, appliedUpdates, nil
}

// processConfirmation strengthens the keyword-category associations that
// produced the confirmed classification. Weights only ever increase, and
// only for the confirmed category.
func (e *Engine) processConfirmation(fb types.JobFeedback) []types.LearningAction {
	categoryID := fb.Original.Primary
	e.confirmed[categoryID]++

	var matched []string
	if cat, ok := e.store.Get(categoryID); ok {
		matched = classifier.MatchedKeywords(fb.Job(), cat)
	}

	weights := e.reinforcement[categoryID]
	if weights == nil {
		weights = make(map[string]float64)
		e.reinforcement[categoryID] = weights
	}
	// Reinforcement lives in its own weight map. Confirmed jobs stay out of
	// the correction-support tracker: a confirmation for one category must
	// not dilute a keyword's specificity toward another.
	for _, kw := range matched {
		weights[kw]++
	}

	desc := fmt.Sprintf("reinforced %d keyword(s) for %s after reviewer confirmation", len(matched), categoryID)
	return []types.LearningAction{e.newAction(
		types.ActionPositiveReinforcement,
		categoryID,
		desc,
		float64(fb.Original.Confidence)/100,
		[]string{fb.JobID},
		false,
		types.ActionDetails{Reinforcement: &types.ReinforcementDetails{Keywords: matched}},
	)}
}

// processCorrection extracts candidate keywords from the job text, scores
// them against the support and specificity gates, and applies or records the
// resulting dictionary mutations.
func (e *Engine) processCorrection(fb types.JobFeedback) ([]types.LearningAction, []types.DictionaryUpdate) {
	target := fb.Correction.CorrectedPrimary
	if e.store.Has(fb.Original.Primary) {
		e.correctedFrom[fb.Original.Primary]++
	}
	e.correctedTo[target]++

	candidates := textproc.ExtractCandidates(fb.JobTitle, fb.JobDescription, fb.JobLabels)
	pairs := pairCandidates(candidates)

	for _, c := range candidates {
		e.tracker.record(c, target, fb.JobID)
	}
	for _, p := range pairs {
		e.tracker.record(pairKey(p), target, fb.JobID)
	}

	targetCat, _ := e.store.Get(target)
	now := time.Now().UTC()
	update := types.DictionaryUpdate{CategoryID: target, Timestamp: now, AutoApplied: true}

	var actions []types.LearningAction
	bestKeyword, bestConfidence := "", 0.0

	for _, c := range candidates {
		support := e.tracker.supportCount(c, target)
		spec := e.tracker.specificity(c, target)
		conf := suggestionConfidence(spec, support)
		if conf > bestConfidence {
			bestKeyword, bestConfidence = c, conf
		}
		if support < e.th.MinSupport || conf < e.th.SuggestionConfidence {
			continue
		}
		e.suggested[suggestionKey(target, c)] = true
		if targetCat.HasKeyword(c) {
			continue
		}

		if conf >= e.th.AutoApplyConfidence {
			tier := "support"
			if conf >= e.th.CoreTierConfidence {
				tier = "core"
				update.NewCoreKeywords = append(update.NewCoreKeywords, c)
			} else {
				update.NewSupportKeywords = append(update.NewSupportKeywords, c)
			}
			if conf > update.Confidence {
				update.Confidence = conf
			}
			delete(e.pending, suggestionKey(target, c))
			actions = append(actions, e.newAction(
				types.ActionKeywordAddition,
				target,
				fmt.Sprintf("learned %s keyword %q for %s", tier, c, target),
				conf,
				e.supportingJobs(c, target),
				true,
				types.ActionDetails{Keyword: &types.KeywordDetails{
					Keyword: c, Specificity: spec, Support: support, Tier: tier,
				}},
			))
		} else {
			e.pending[suggestionKey(target, c)] = types.DictionaryUpdate{
				CategoryID:         target,
				NewSupportKeywords: []string{c},
				Timestamp:          now,
				AutoApplied:        false,
				Confidence:         conf,
			}
		}
	}

	for _, p := range pairs {
		key := pairKey(p)
		support := e.tracker.supportCount(key, target)
		spec := e.tracker.specificity(key, target)
		conf := suggestionConfidence(spec, support)
		if support < e.th.MinSupport || conf < e.th.SuggestionConfidence {
			continue
		}
		e.suggested[suggestionKey(target, key)] = true
		pair := types.KeywordPair{First: p[0], Second: p[1]}
		if targetCat.HasPair(pair) {
			continue
		}
		if conf >= e.th.AutoApplyConfidence {
			update.NewContextPairs = append(update.NewContextPairs, pair)
			if conf > update.Confidence {
				update.Confidence = conf
			}
			delete(e.pending, suggestionKey(target, key))
		} else {
			e.pending[suggestionKey(target, key)] = types.DictionaryUpdate{
				CategoryID:      target,
				NewContextPairs: []types.KeywordPair{pair},
				Timestamp:       now,
				AutoApplied:     false,
				Confidence:      conf,
			}
		}
	}

	var appliedUpdates []types.DictionaryUpdate
	if !update.IsEmpty() {
		if err := e.store.ApplyUpdate(update); err != nil {
			e.issues = append(e.issues,
				fmt.Sprintf("feedback %s: failed to apply dictionary update: %v", fb.ID, err))
		} else {
			e.applied = append(e.applied, update)
			appliedUpdates = append(appliedUpdates, update)
			actions = append(actions, e.newAction(
				types.ActionCategoryUpdate,
				target,
				fmt.Sprintf("applied dictionary update to %s (%d core, %d support, %d pairs)",
					target, len(update.NewCoreKeywords), len(update.NewSupportKeywords), len(update.NewContextPairs)),
				update.Confidence,
				[]string{fb.JobID},
				true,
				types.ActionDetails{Update: &types.UpdateDetails{Update: update}},
			))
		}
	} else {
		// Below the decision bar: still log the evidence so it is auditable.
		actions = append(actions, e.newAction(
			types.ActionPatternRecognition,
			target,
			fmt.Sprintf("recorded %d candidate keyword(s) for %s; none met the update thresholds", len(candidates), target),
			bestConfidence,
			[]string{fb.JobID},
			false,
			types.ActionDetails{Pattern: &types.PatternDetails{
				Candidates:     candidates,
				BestKeyword:    bestKeyword,
				BestConfidence: bestConfidence,
			}},
		))
	}

	return actions, appliedUpdates
}

// ReinforcementWeight returns the accumulated reinforcement weight for a
// keyword-category association. Weights start at zero and never decrease.
func (e *Engine) ReinforcementWeight(categoryID, keyword string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reinforcement[categoryID][keyword]
}

// Issues returns the non-fatal problems recorded while processing feedback.
func (e *Engine) Issues() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.issues...)
}

// ClearAllData resets every learned keyword, action, and statistic back to
// the seed state. It refuses to run without explicit confirmation, and a
// failed taxonomy reset leaves all state untouched.
func (e *Engine) ClearAllData(confirm bool) error {
	if !confirm {
		return fmt.Errorf("refusing to clear learning data without confirmation")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.store.ResetToSeed(); err != nil {
		return fmt.Errorf("failed to reset taxonomy: %w", err)
	}

	e.tracker = newSupportTracker()
	e.processed = make(map[string]bool)
	e.reinforcement = make(map[string]map[string]float64)
	e.pending = make(map[string]types.DictionaryUpdate)
	e.suggested = make(map[string]bool)
	e.actions = nil
	e.applied = nil
	e.issues = nil
	e.totalFeedback = 0
	e.confirmed = make(map[string]int)
	e.correctedFrom = make(map[string]int)
	e.correctedTo = make(map[string]int)
	return nil
}

func (e *Engine) newAction(t types.ActionType, categoryID, description string, confidence float64, jobs []string, autoApplied bool, details types.ActionDetails) types.LearningAction {
	return types.LearningAction{
		ID:             uuid.NewString(),
		Type:           t,
		Timestamp:      time.Now().UTC(),
		CategoryID:     categoryID,
		Description:    description,
		Confidence:     confidence,
		SupportingJobs: jobs,
		AutoApplied:    autoApplied,
		Details:        details,
	}
}

func (e *Engine) supportingJobs(keyword, categoryID string) []string {
	jobs := make([]string, 0, len(e.tracker.support[keyword][categoryID]))
	for id := range e.tracker.support[keyword][categoryID] {
		jobs = append(jobs, id)
	}
	sort.Strings(jobs)
	return jobs
}

// pairCandidates returns the unordered pairs of the first few candidates.
// Every returned pair co-occurred in the job the candidates came from.
func pairCandidates(candidates []string) [][2]string {
	limit := len(candidates)
	if limit > pairCandidateLimit {
		limit = pairCandidateLimit
	}
	var pairs [][2]string
	for i := 0; i < limit; i++ {
		// Skip bigram candidates: pairing a phrase with its own words
		// produces degenerate pairs.
		if strings.Contains(candidates[i], " ") {
			continue
		}
		for j := i + 1; j < limit; j++ {
			if strings.Contains(candidates[j], " ") {
				continue
			}
			pairs = append(pairs, [2]string{candidates[i], candidates[j]})
		}
	}
	return pairs
}

func pairKey(p [2]string) string {
	if p[1] < p[0] {
		p[0], p[1] = p[1], p[0]
	}
	return p[0] + " + " + p[1]
}

func suggestionKey(categoryID, term string) string {
	return categoryID + "|" + term
}
