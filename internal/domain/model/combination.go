package model

import "time"

// MergeStrategy is the fixed set of policy choices governing how multiple
// repositories' inferred structure is unified. It is chosen once per
// combination request and immutable thereafter.
type MergeStrategy struct {
	TargetFramework  Framework
	ConflictPolicy   ConflictPolicy
	ComponentPolicy  ComponentPolicy
	DependencyPolicy DependencyPolicy
}

// CombinationRequest asks the engine to combine several repositories into
// one project skeleton. TargetFramework may be empty, in which case the
// most frequent detected framework wins (first-seen on ties). The policy
// fields override the engine defaults when set.
type CombinationRequest struct {
	Repositories     []Repository
	Name             string
	TargetFramework  Framework
	Features         []string
	ConflictPolicy   ConflictPolicy
	ComponentPolicy  ComponentPolicy
	DependencyPolicy DependencyPolicy
}

// FileStub is a generated placeholder file in the combined skeleton.
type FileStub struct {
	Path    string
	Purpose string
}

// DeploymentConfig is the generated deployment hint set for a combination.
type DeploymentConfig struct {
	Platform     string
	BuildCommand string
	OutputDir    string
	EnvVars      []string
}

// CombinationResult is the outcome of one combine request. It is owned by
// the request that created it and registered in-process by ID.
type CombinationResult struct {
	ID           string
	Name         string
	Description  string
	Strategy     MergeStrategy
	Structure    ProjectStructure
	Files        []FileStub
	Dependencies []string
	Features     []string
	Scripts      map[string]string
	Deployment   DeploymentConfig
	Instructions []string
	Sources      []string // full names of the source repositories
	CreatedAt    time.Time
}
