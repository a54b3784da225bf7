package application

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// Activity bucket windows, in days before now.
const (
	activeWindowDays     = 30
	maintainedWindowDays = 90
	staleWindowDays      = 365
)

// QueryBuilder serializes a free-text query plus structured filters into
// the search API's qualifier dialect. Output is a pure function of its
// inputs (and the injected clock for activity windows), so identical
// logical filters always serialize to byte-identical strings; cache keys
// depend on this.
type QueryBuilder struct {
	exclusions []string
	now        func() time.Time
}

// NewQueryBuilder creates a QueryBuilder applying the given exclusion-list
// logins. The slice order is preserved; callers pass a stably ordered list.
func NewQueryBuilder(exclusions []string) *QueryBuilder {
	return &QueryBuilder{exclusions: exclusions, now: time.Now}
}

// Build returns the serialized query. Term order is fixed for
// debuggability: free text, exclusions, language, star bounds, topics,
// tri-state presence flags, archived/fork, size bucket, activity bucket.
// The API treats terms as an unordered conjunction, so order only matters
// for cache-key stability.
func (b *QueryBuilder) Build(query string, f model.SearchFilters) string {
	var terms []string

	if q := strings.TrimSpace(query); q != "" {
		terms = append(terms, q)
	}

	for _, login := range b.exclusions {
		if login != "" {
			terms = append(terms, "-user:"+login)
		}
	}

	if f.Language != "" {
		terms = append(terms, "language:"+f.Language)
	}
	if f.MinStars > 0 {
		terms = append(terms, fmt.Sprintf("stars:>=%d", f.MinStars))
	}
	if f.MaxStars > 0 {
		terms = append(terms, fmt.Sprintf("stars:<=%d", f.MaxStars))
	}

	for _, topic := range f.Topics {
		if topic != "" {
			terms = append(terms, "topic:"+topic)
		}
	}

	terms = appendTriState(terms, "has:issues", f.HasIssues)
	terms = appendTriState(terms, "has:wiki", f.HasWiki)
	terms = appendTriState(terms, "has:pages", f.HasPages)

	if f.Archived != nil {
		terms = append(terms, fmt.Sprintf("archived:%t", *f.Archived))
	}
	if f.Fork != nil {
		terms = append(terms, fmt.Sprintf("fork:%t", *f.Fork))
	}

	switch f.Size {
	case model.SizeSmall:
		terms = append(terms, "size:<1000")
	case model.SizeMedium:
		terms = append(terms, "size:1000..10000")
	case model.SizeLarge:
		terms = append(terms, "size:>10000")
	}

	if term := b.activityTerm(f.Activity); term != "" {
		terms = append(terms, term)
	}

	return strings.Join(terms, " ")
}

// appendTriState serializes an optional presence flag: nil is omitted,
// true emits the qualifier, false emits its negation. Set-false and unset
// must produce distinct strings so their cache keys differ.
func appendTriState(terms []string, qualifier string, flag *bool) []string {
	if flag == nil {
		return terms
	}
	if *flag {
		return append(terms, qualifier)
	}
	return append(terms, "-"+qualifier)
}

// activityTerm maps an activity bucket to a pushed-date qualifier relative
// to now. Active and maintained are lower bounds; stale is an upper bound.
func (b *QueryBuilder) activityTerm(bucket model.ActivityBucket) string {
	var days int
	var op string
	switch bucket {
	case model.ActivityActive:
		days, op = activeWindowDays, ">"
	case model.ActivityMaintained:
		days, op = maintainedWindowDays, ">"
	case model.ActivityStale:
		days, op = staleWindowDays, "<"
	default:
		return ""
	}
	date := b.now().AddDate(0, 0, -days).Format("2006-01-02")
	return "pushed:" + op + date
}
