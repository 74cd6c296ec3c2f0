package generator

import (
	"math/rand/v2"
	"strings"
)

var (
	tools      = []string{"Docker", "Kubernetes", "Terraform", "Ansible", "Git", "VS Code", "Vim", "Rust", "Python", "TypeScript"}
	frameworks = []string{"Next.js", "React", "Vue", "Svelte", "FastAPI", "Axum", "Express", "Django", "Rails", "Spring"}
	features   = []string{"SSR", "TypeScript", "hot reload", "caching", "authentication", "logging", "monitoring"}
	actions    = []string{"test", "review", "backup", "document", "validate", "check"}
	topics     = []string{"API", "authentication", "deployment", "testing", "CI/CD", "monitoring", "security"}
)

// DefaultTemplates are the eight synthetic memory templates.
func DefaultTemplates() []Template {
	return []Template{
		{Text: "User prefers {tool} over {alt} for {task}.", Tags: []string{"preference", "tool"}, Importance: 0.8},
		{Text: "Project uses {framework} with {feature} enabled.", Tags: []string{"project", "tech-stack"}, Importance: 0.7},
		{Text: "Important: Always {action} before {other_action}.", Tags: []string{"workflow", "best-practice"}, Importance: 0.9},
		{Text: "Note: {topic} documentation is at {url}.", Tags: []string{"documentation", "reference"}, Importance: 0.5},
		{Text: "Learned that {concept} works best when {condition}.", Tags: []string{"learning", "insight"}, Importance: 0.6},
		{Text: "Meeting decision: We will {decision} starting {timeframe}.", Tags: []string{"decision", "meeting"}, Importance: 0.75},
		{Text: "Bug fix: {issue} was caused by {cause}.", Tags: []string{"bugfix", "debugging"}, Importance: 0.65},
		{Text: "Configuration: Set {setting} to {value} for {environment}.", Tags: []string{"config", "devops"}, Importance: 0.55},
	}
}

// DefaultProviders supplies a value for every placeholder in DefaultTemplates.
func DefaultProviders() Providers {
	return Providers{
		"tool":         OneOf(tools...),
		"alt":          OneOf(tools...),
		"task":         OneOf("development", "deployment", "testing", "CI/CD", "monitoring"),
		"framework":    OneOf(frameworks...),
		"feature":      OneOf(features...),
		"action":       OneOf(actions...),
		"other_action": OneOf(actions...),
		"topic":        OneOf(topics...),
		"url": func(rng *rand.Rand) string {
			return "https://docs.example.com/" + strings.ToLower(choice(rng, topics))
		},
		"concept":     OneOf(topics...),
		"condition":   OneOf("combined with caching", "in production", "with proper error handling"),
		"decision":    OneOf("use microservices", "adopt TypeScript", "implement CI/CD", "migrate to cloud"),
		"timeframe":   OneOf("next sprint", "Q2", "immediately", "after testing"),
		"issue":       OneOf("memory leak", "timeout error", "race condition", "null pointer"),
		"cause":       OneOf("missing null check", "incorrect config", "race condition", "memory leak"),
		"setting":     OneOf("LOG_LEVEL", "MAX_CONNECTIONS", "TIMEOUT", "CACHE_TTL"),
		"value":       OneOf("debug", "100", "30s", "3600"),
		"environment": OneOf("production", "staging", "development", "testing"),
	}
}
