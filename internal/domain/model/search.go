package model

import "time"

// RateInfo carries the quota reported by the search API's response headers.
type RateInfo struct {
	Remaining int
	Reset     time.Time
}

// RawSearchPage is one page of unscored results as returned by the search
// adapter, before enrichment and post-filtering.
type RawSearchPage struct {
	Repositories []Repository
	TotalCount   int
	Rate         RateInfo
}

// SearchPage is one page of scored, filtered search results.
// HasMore is an approximation: it is true iff the API returned a full page,
// which can be wrong exactly at a result-count boundary. The API's own
// total counts are approximate for large result sets, so this is kept as is.
type SearchPage struct {
	Repositories []Repository
	TotalCount   int
	Page         int
	HasMore      bool
	NextPage     int // 0 when HasMore is false
}
