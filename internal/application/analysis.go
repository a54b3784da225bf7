package application

import (
	"sort"
	"strings"

	"github.com/ericfisherdev/repoforge/internal/domain/model"
)

// frameworkKeywords is the priority-ordered detection table. Detection
// substring-matches each keyword against the lowercased concatenation of
// name, description, and topics; the first framework with a match wins.
// The heuristic can misclassify prose mentions; that fuzziness is part of
// the engine's contract and is preserved deliberately.
var frameworkKeywords = []struct {
	framework model.Framework
	keywords  []string
}{
	{model.FrameworkNextJS, []string{"nextjs", "next.js", "next-js"}},
	{model.FrameworkRemix, []string{"remix"}},
	{model.FrameworkReact, []string{"react"}},
	{model.FrameworkVue, []string{"vue"}},
	{model.FrameworkAngular, []string{"angular"}},
	{model.FrameworkExpress, []string{"express"}},
	{model.FrameworkFastAPI, []string{"fastapi"}},
	{model.FrameworkDjango, []string{"django"}},
}

// componentKeywords is the fixed membership list for component extraction.
var componentKeywords = []string{
	"auth", "authentication", "database", "api", "ui", "routing",
	"state-management", "testing", "deployment", "cms", "payments",
	"realtime", "i18n", "analytics", "search",
}

// frameworkDependencies maps each detected framework to its inferred base
// dependency names. Manifests are never parsed; this mapping is the whole
// inference.
var frameworkDependencies = map[model.Framework][]string{
	model.FrameworkNextJS:  {"next", "react", "react-dom"},
	model.FrameworkRemix:   {"@remix-run/react", "react", "react-dom"},
	model.FrameworkReact:   {"react", "react-dom"},
	model.FrameworkVue:     {"vue"},
	model.FrameworkAngular: {"@angular/core", "@angular/common"},
	model.FrameworkExpress: {"express"},
	model.FrameworkFastAPI: {"fastapi", "uvicorn"},
	model.FrameworkDjango:  {"django"},
}

// topicDependencies adds dependency names triggered by topic keywords,
// unioned with the framework base set.
var topicDependencies = map[string]string{
	"typescript":  "typescript",
	"tailwind":    "tailwindcss",
	"tailwindcss": "tailwindcss",
	"graphql":     "graphql",
	"redux":       "redux",
	"prisma":      "prisma",
	"jest":        "jest",
	"sass":        "sass",
	"webpack":     "webpack",
	"eslint":      "eslint",
}

// featureKeywords maps metadata keywords to human-readable feature labels.
// Any keyword match adds its feature once.
var featureKeywords = map[string]string{
	"auth":       "Authentication",
	"login":      "Authentication",
	"dashboard":  "Dashboard",
	"chat":       "Real-time Chat",
	"payment":    "Payments",
	"stripe":     "Payments",
	"blog":       "Blog",
	"ecommerce":  "E-commerce",
	"shop":       "E-commerce",
	"dark-mode":  "Dark Mode",
	"responsive": "Responsive Design",
	"pwa":        "PWA",
	"seo":        "SEO",
	"i18n":       "Internationalization",
	"charts":     "Data Visualization",
	"analytics":  "Analytics",
}

// frameworkStructures is the inferred skeleton layout per framework.
var frameworkStructures = map[model.Framework]model.ProjectStructure{
	model.FrameworkNextJS: {
		Folders:     []string{"app", "components", "lib", "public", "styles"},
		EntryPoints: []string{"app/layout.tsx", "app/page.tsx"},
		ConfigFiles: []string{"next.config.js", "package.json", "tsconfig.json"},
	},
	model.FrameworkRemix: {
		Folders:     []string{"app", "app/routes", "public"},
		EntryPoints: []string{"app/root.tsx", "app/entry.server.tsx"},
		ConfigFiles: []string{"remix.config.js", "package.json", "tsconfig.json"},
	},
	model.FrameworkReact: {
		Folders:     []string{"src", "src/components", "public"},
		EntryPoints: []string{"src/index.tsx", "src/App.tsx"},
		ConfigFiles: []string{"package.json", "tsconfig.json"},
	},
	model.FrameworkVue: {
		Folders:     []string{"src", "src/components", "src/views", "public"},
		EntryPoints: []string{"src/main.ts", "src/App.vue"},
		ConfigFiles: []string{"vite.config.ts", "package.json"},
	},
	model.FrameworkAngular: {
		Folders:     []string{"src", "src/app", "src/assets"},
		EntryPoints: []string{"src/main.ts", "src/app/app.module.ts"},
		ConfigFiles: []string{"angular.json", "package.json", "tsconfig.json"},
	},
	model.FrameworkExpress: {
		Folders:     []string{"src", "src/routes", "src/middleware"},
		EntryPoints: []string{"src/index.js"},
		ConfigFiles: []string{"package.json"},
	},
	model.FrameworkFastAPI: {
		Folders:     []string{"app", "app/routers", "app/models"},
		EntryPoints: []string{"app/main.py"},
		ConfigFiles: []string{"pyproject.toml", "requirements.txt"},
	},
	model.FrameworkDjango: {
		Folders:     []string{"config", "apps", "static", "templates"},
		EntryPoints: []string{"manage.py", "config/wsgi.py"},
		ConfigFiles: []string{"config/settings.py", "requirements.txt"},
	},
	model.FrameworkUnknown: {
		Folders:     []string{"src", "docs"},
		EntryPoints: []string{"src/index.js"},
		ConfigFiles: []string{"package.json"},
	},
}

// frameworkScripts is the fixed dev/build/start command map per framework.
// Unknown frameworks fall back to a generic npm script set.
var frameworkScripts = map[model.Framework]map[string]string{
	model.FrameworkNextJS:  {"dev": "next dev", "build": "next build", "start": "next start"},
	model.FrameworkRemix:   {"dev": "remix dev", "build": "remix build", "start": "remix-serve build"},
	model.FrameworkReact:   {"dev": "react-scripts start", "build": "react-scripts build", "start": "serve -s build"},
	model.FrameworkVue:     {"dev": "vite", "build": "vite build", "start": "vite preview"},
	model.FrameworkAngular: {"dev": "ng serve", "build": "ng build", "start": "ng serve --configuration production"},
	model.FrameworkExpress: {"dev": "nodemon src/index.js", "build": "echo 'no build step'", "start": "node src/index.js"},
	model.FrameworkFastAPI: {"dev": "uvicorn app.main:app --reload", "build": "pip install -r requirements.txt", "start": "uvicorn app.main:app"},
	model.FrameworkDjango:  {"dev": "python manage.py runserver", "build": "python manage.py collectstatic --noinput", "start": "gunicorn config.wsgi"},
	model.FrameworkUnknown: {"dev": "npm run dev", "build": "npm run build", "start": "npm start"},
}

// DetectFramework returns the first framework whose keyword list matches
// the lowercased concatenation of name, description, and topics, or
// FrameworkUnknown when nothing matches.
func DetectFramework(repo model.Repository) model.Framework {
	haystack := metadataText(repo)
	for _, entry := range frameworkKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				return entry.framework
			}
		}
	}
	return model.FrameworkUnknown
}

// ExtractComponents returns the fixed-list components whose keyword
// appears in the repository's topics or description.
func ExtractComponents(repo model.Repository) []string {
	haystack := metadataText(repo)
	var components []string
	for _, kw := range componentKeywords {
		if strings.Contains(haystack, kw) {
			components = append(components, kw)
		}
	}
	return components
}

// InferDependencies unions the framework's base dependency set with
// topic-triggered extras, deduplicated and sorted.
func InferDependencies(framework model.Framework, topics []string) []string {
	seen := make(map[string]struct{})
	for _, dep := range frameworkDependencies[framework] {
		seen[dep] = struct{}{}
	}
	for _, topic := range topics {
		if dep, ok := topicDependencies[strings.ToLower(topic)]; ok {
			seen[dep] = struct{}{}
		}
	}

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// InferFeatures returns the deduplicated feature labels whose keyword
// appears in the repository metadata.
func InferFeatures(repo model.Repository) []string {
	haystack := metadataText(repo)
	seen := make(map[string]struct{})
	for kw, feature := range featureKeywords {
		if strings.Contains(haystack, kw) {
			seen[feature] = struct{}{}
		}
	}

	features := make([]string, 0, len(seen))
	for feature := range seen {
		features = append(features, feature)
	}
	sort.Strings(features)
	return features
}

// StructureFor returns the inferred skeleton layout for a framework.
func StructureFor(framework model.Framework) model.ProjectStructure {
	if s, ok := frameworkStructures[framework]; ok {
		return s
	}
	return frameworkStructures[model.FrameworkUnknown]
}

// ScriptsFor returns the dev/build/start command map for a framework,
// copied so callers can extend it without mutating the table.
func ScriptsFor(framework model.Framework) map[string]string {
	base, ok := frameworkScripts[framework]
	if !ok {
		base = frameworkScripts[model.FrameworkUnknown]
	}
	scripts := make(map[string]string, len(base))
	for k, v := range base {
		scripts[k] = v
	}
	return scripts
}

// AnalyzeRepository runs the full metadata-only inference for one
// repository. No source code is fetched.
func AnalyzeRepository(repo model.Repository, scorer *QualityScorer) model.RepoAnalysis {
	framework := DetectFramework(repo)
	return model.RepoAnalysis{
		Repo:         repo,
		Framework:    framework,
		Components:   ExtractComponents(repo),
		Dependencies: InferDependencies(framework, repo.Topics),
		Features:     InferFeatures(repo),
		Structure:    StructureFor(framework),
		QualityScore: scorer.Score(repo),
	}
}

// metadataText lowercases and joins the fields the heuristics match on.
func metadataText(repo model.Repository) string {
	parts := []string{repo.Name, repo.Description}
	parts = append(parts, repo.Topics...)
	return strings.ToLower(strings.Join(parts, " "))
}
