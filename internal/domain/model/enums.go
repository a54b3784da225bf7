package model

// Framework is a closed set of frameworks the analyzer can detect.
type Framework string

const (
	FrameworkNextJS  Framework = "nextjs"
	FrameworkRemix   Framework = "remix"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkExpress Framework = "express"
	FrameworkFastAPI Framework = "fastapi"
	FrameworkDjango  Framework = "django"
	FrameworkUnknown Framework = "unknown"
)

// ConflictPolicy controls how file-level conflicts are resolved when merging.
type ConflictPolicy string

const (
	ConflictOverwrite  ConflictPolicy = "overwrite"
	ConflictMerge      ConflictPolicy = "merge"
	ConflictSmartMerge ConflictPolicy = "smart-merge"
)

// ComponentPolicy controls which components are carried into a combination.
type ComponentPolicy string

const (
	ComponentsAll         ComponentPolicy = "all"
	ComponentsSelective   ComponentPolicy = "selective"
	ComponentsBestOfBreed ComponentPolicy = "best-of-breed"
)

// DependencyPolicy controls how dependency sets are combined.
type DependencyPolicy string

const (
	DependenciesUnified       DependencyPolicy = "unified"
	DependenciesSeparate      DependencyPolicy = "separate"
	DependenciesMicroFrontend DependencyPolicy = "micro-frontend"
)

// SizeBucket maps to a repository size range in the search dialect.
type SizeBucket string

const (
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
)

// ActivityBucket maps to a pushed-date window in the search dialect.
type ActivityBucket string

const (
	ActivityActive     ActivityBucket = "active"     // pushed within 30 days
	ActivityMaintained ActivityBucket = "maintained" // pushed within 90 days
	ActivityStale      ActivityBucket = "stale"      // not pushed for a year
)

// SortKey is a server-side sort accepted by the search API.
// Empty means best-match relevance ordering.
type SortKey string

const (
	SortStars   SortKey = "stars"
	SortForks   SortKey = "forks"
	SortUpdated SortKey = "updated"
)

// SortOrder is the direction for a SortKey.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Timeframe selects the created-since window for trending lookups.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ConflictType classifies a compatibility conflict.
type ConflictType string

const (
	ConflictTypeFramework    ConflictType = "framework"
	ConflictTypeDependency   ConflictType = "dependency"
	ConflictTypeArchitecture ConflictType = "architecture"
)
