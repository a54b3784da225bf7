package model

// ProjectStructure is the inferred skeleton layout for a framework.
type ProjectStructure struct {
	Folders     []string
	EntryPoints []string
	ConfigFiles []string
}

// RepoAnalysis is the per-repository inference result used by the
// compatibility engine. It is computed on demand from metadata only and
// never persisted across restarts.
type RepoAnalysis struct {
	Repo         Repository
	Framework    Framework
	Components   []string
	Dependencies []string
	Features     []string
	Structure    ProjectStructure
	QualityScore int
}

// Conflict describes one detected incompatibility between repositories.
type Conflict struct {
	Type        ConflictType
	Description string
	Repos       []string // full names of the repositories involved
}

// CompatibilityReport is the aggregate result of analyzing a set of
// repositories for combinability.
type CompatibilityReport struct {
	Score       int // 0-100
	Conflicts   []Conflict
	Suggestions []string
}

// RepoInsight is the structured output of the LLM analysis collaborator.
type RepoInsight struct {
	OverallQuality       int      `json:"overall_quality"`
	Issues               []string `json:"issues"`
	Suggestions          []string `json:"suggestions"`
	SecurityScore        int      `json:"security_score"`
	MaintainabilityScore int      `json:"maintainability_score"`
}

// AnalysisOutcome distinguishes a real LLM insight from the fallback that
// is substituted when the collaborator is absent or returns unusable
// output. Degraded outcomes carry the reason.
type AnalysisOutcome struct {
	Insight  RepoInsight
	Degraded bool
	Reason   string
}
