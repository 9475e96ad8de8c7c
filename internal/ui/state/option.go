package state

import (
	"strings"

	"github.com/atomicstack/chat-prefix/internal/prefix"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NoneLabel is shown for the sentinel option and for stale selections.
const NoneLabel = "None"

// Option is a selectable row of the prefix menu.
type Option struct {
	ID    string
	Label string
}

// Candidates builds the option list: the none sentinel followed by every
// entry in stored order.
func Candidates(entries []prefix.Entry) []Option {
	options := make([]Option, 0, len(entries)+1)
	options = append(options, Option{ID: selection.None, Label: NoneLabel})
	for _, e := range entries {
		options = append(options, Option{ID: e.ID, Label: e.Label})
	}
	return options
}

// LabelFor returns the label of the option with id, or NoneLabel.
func LabelFor(options []Option, id string) string {
	for _, opt := range options {
		if opt.ID == id {
			return opt.Label
		}
	}
	return NoneLabel
}

// CloneOptions produces a shallow copy of the provided options.
func CloneOptions(options []Option) []Option {
	dup := make([]Option, len(options))
	copy(dup, options)
	return dup
}

// FilterOptions keeps every option whose label contains query, ignoring
// case. The none sentinel is matched by its label like any other option.
// Relative order is preserved and an empty query returns every option.
func FilterOptions(options []Option, query string) []Option {
	if query == "" {
		return CloneOptions(options)
	}
	lower := strings.ToLower(query)
	filtered := make([]Option, 0, len(options))
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt.Label), lower) {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}

// BestMatchIndex picks the option the cursor should land on for query.
// Exact and prefix label matches win; otherwise the closest fuzzy match
// does, falling back to the first option.
func BestMatchIndex(options []Option, query string) int {
	if len(options) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, opt := range options {
		if strings.EqualFold(opt.Label, trimmed) {
			return i
		}
	}
	for i, opt := range options {
		if strings.HasPrefix(strings.ToLower(opt.Label), lower) {
			return i
		}
	}
	labels := make([]string, len(options))
	for i, opt := range options {
		labels[i] = opt.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance || (rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}
