// Package rewrite produces the next pass's work list from a completed
// checkpoint and the original URL list. Output order always equals input
// order; the rewriter never sees worker completion order.
package rewrite

import (
	"strings"

	"urlharvest/pkg/models"
)

// Rule transforms a dead URL into its expected replacement. It returns
// the rewritten URL and whether the rule applied.
type Rule interface {
	Apply(url string) (string, bool)
}

// SubstringRule replaces the first occurrence of a fixed
// naming-convention fragment, e.g. a singular resource suffix with its
// plural form. It is one example of a rule; callers can plug in others.
type SubstringRule struct {
	Old string
	New string
}

// Apply rewrites url if it contains the rule's fragment.
func (r SubstringRule) Apply(url string) (string, bool) {
	if r.Old == "" || !strings.Contains(url, r.Old) {
		return url, false
	}
	return strings.Replace(url, r.Old, r.New, 1), true
}

// OutcomeSource provides recorded outcomes for URLs. Implemented by
// checkpoint.Store.
type OutcomeSource interface {
	Outcome(url string) (models.Outcome, bool)
}

// DropNotFound emits every URL whose outcome is not NotFound, preserving
// the original relative order. URLs without a record are kept.
func DropNotFound(list []string, outcomes OutcomeSource) []string {
	next := make([]string, 0, len(list))
	for _, url := range list {
		if outcome, ok := outcomes.Outcome(url); ok && outcome.Kind == models.KindNotFound {
			continue
		}
		next = append(next, url)
	}
	return next
}

// RewriteDead substitutes a transformed URL for every URL whose outcome
// indicates a dead link, keeping all other URLs unchanged. The returned
// decisions slice is aligned with the input order, one outcome per URL
// (unchanged, or rewritten carrying the new URL).
func RewriteDead(list []string, outcomes OutcomeSource, rule Rule) ([]string, []models.Outcome) {
	next := make([]string, 0, len(list))
	decisions := make([]models.Outcome, 0, len(list))

	for _, url := range list {
		outcome, ok := outcomes.Outcome(url)
		if ok && outcome.Kind == models.KindNotFound {
			if rewritten, applied := rule.Apply(url); applied {
				next = append(next, rewritten)
				decisions = append(decisions, models.Rewritten(rewritten))
				continue
			}
		}
		next = append(next, url)
		decisions = append(decisions, models.Unchanged())
	}

	return next, decisions
}
