package model

// SearchFilters are optional constraints applied to a repository search.
// Zero values mean "unconstrained". The Has* and Archived/Fork fields are
// tri-state: nil is omitted from the query entirely, true and false each
// serialize to a distinct term.
type SearchFilters struct {
	Language string
	MinStars int // 0 = no lower bound
	MaxStars int // 0 = no upper bound
	Topics   []string

	HasIssues *bool
	HasWiki   *bool
	HasPages  *bool
	Archived  *bool
	Fork      *bool

	Size     SizeBucket
	Activity ActivityBucket

	Sort  SortKey
	Order SortOrder

	// MinQuality is a post-filter on the computed quality score. The search
	// dialect cannot express it, so it is applied after scoring.
	MinQuality int
}
