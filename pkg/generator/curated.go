package generator

import (
	"context"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/papercomputeco/memseed/pkg/memory"
	"github.com/papercomputeco/memseed/pkg/utils"
)

const (
	WisdomName = "wisdom"
	FactsName  = "facts"
	TipsName   = "tips"

	factSummaryLength = 50
	tipSummaryLength  = 40
)

type curatedEntry struct {
	text        string
	attribution string
	tags        []string
}

// CuratedSource emits one record per entry of a fixed list. Content and tags
// are the same on every call; importance is drawn fresh each time.
type CuratedSource struct {
	name     string
	category string
	entries  []curatedEntry
	lo, hi   float64
	format   func(e curatedEntry) (content, summary string)
	rng      *rand.Rand
}

// Name implements Source.
func (s *CuratedSource) Name() string {
	return s.name
}

// Len returns the number of records the source emits.
func (s *CuratedSource) Len() int {
	return len(s.entries)
}

// Records implements Source. It never fails.
func (s *CuratedSource) Records(_ context.Context) (iter.Seq[memory.Record], error) {
	return func(yield func(memory.Record) bool) {
		for _, e := range s.entries {
			content, summary := s.format(e)
			r := memory.Record{
				Content:    content,
				Summary:    summary,
				Tags:       slices.Concat(e.tags, []string{s.category}),
				Importance: uniformImportance(s.rng, s.lo, s.hi),
			}
			if !yield(r) {
				return
			}
		}
	}, nil
}

// NewWisdom returns the programming wisdom source.
func NewWisdom(rng *rand.Rand) *CuratedSource {
	return &CuratedSource{
		name:     WisdomName,
		category: "wisdom",
		entries:  wisdomEntries,
		lo:       0.6,
		hi:       0.95,
		format: func(e curatedEntry) (string, string) {
			return `"` + e.text + `" - ` + e.attribution, "Wisdom from " + e.attribution
		},
		rng: rng,
	}
}

// NewFacts returns the technology facts source.
func NewFacts(rng *rand.Rand) *CuratedSource {
	return &CuratedSource{
		name:     FactsName,
		category: "fact",
		entries:  factEntries,
		lo:       0.4,
		hi:       0.8,
		format: func(e curatedEntry) (string, string) {
			return e.text, utils.Truncate(e.text, factSummaryLength)
		},
		rng: rng,
	}
}

// NewTips returns the life and productivity tips source.
func NewTips(rng *rand.Rand) *CuratedSource {
	return &CuratedSource{
		name:     TipsName,
		category: "tip",
		entries:  tipEntries,
		lo:       0.5,
		hi:       0.85,
		format: func(e curatedEntry) (string, string) {
			return e.text, "Tip: " + utils.Truncate(e.text, tipSummaryLength)
		},
		rng: rng,
	}
}

var wisdomEntries = []curatedEntry{
	{"Write code that is easy to delete, not easy to extend.", "Programming wisdom", []string{"programming", "design"}},
	{"Premature optimization is the root of all evil.", "Donald Knuth", []string{"programming", "optimization"}},
	{"Make it work, make it right, make it fast.", "Kent Beck", []string{"programming", "process"}},
	{"Programs must be written for people to read, and only incidentally for machines to execute.", "SICP", []string{"programming", "readability"}},
	{"The best code is no code at all.", "Jeff Atwood", []string{"programming", "simplicity"}},
	{"Code is like humor. When you have to explain it, it's bad.", "Cory House", []string{"programming", "clarity"}},
	{"First, solve the problem. Then, write the code.", "John Johnson", []string{"programming", "problem-solving"}},
	{"Any fool can write code that a computer can understand. Good programmers write code that humans can understand.", "Martin Fowler", []string{"programming", "clean-code"}},
	{"Debugging is twice as hard as writing the code in the first place.", "Brian Kernighan", []string{"programming", "debugging"}},
	{"The most dangerous phrase in the language is: We've always done it this way.", "Grace Hopper", []string{"wisdom", "innovation"}},
	{"Simplicity is prerequisite for reliability.", "Edsger Dijkstra", []string{"programming", "simplicity"}},
	{"If you can't explain it simply, you don't understand it well enough.", "Albert Einstein", []string{"wisdom", "teaching"}},
	{"The only way to learn a new programming language is by writing programs in it.", "Dennis Ritchie", []string{"programming", "learning"}},
	{"It's not a bug – it's an undocumented feature.", "Anonymous", []string{"programming", "humor"}},
	{"Good code is its own best documentation.", "Steve McConnell", []string{"programming", "documentation"}},
}

var factEntries = []curatedEntry{
	{text: "The first computer virus was created in 1983 and was called the Elk Cloner.", tags: []string{"technology", "history", "security"}},
	{text: "Python was named after Monty Python, not the snake.", tags: []string{"programming", "python", "trivia"}},
	{text: "Git was created by Linus Torvalds in 2005 for Linux kernel development.", tags: []string{"git", "technology", "history"}},
	{text: "The first website ever created is still online at info.cern.ch.", tags: []string{"web", "history", "internet"}},
	{text: "JavaScript was created in just 10 days by Brendan Eich in 1995.", tags: []string{"javascript", "programming", "history"}},
	{text: "The term 'bug' in computing came from an actual moth found in a computer in 1947.", tags: []string{"programming", "history", "trivia"}},
	{text: "The first 1GB hard drive, introduced in 1980, weighed 550 pounds and cost $40,000.", tags: []string{"technology", "history", "hardware"}},
	{text: "Over 90% of the world's data has been created in the last two years.", tags: []string{"data", "technology", "statistics"}},
	{text: "The average person spends about 7 hours a day looking at screens.", tags: []string{"technology", "health", "statistics"}},
	{text: "NASA's computers in 1969 had less processing power than a modern calculator.", tags: []string{"technology", "history", "space"}},
	{text: "The first email was sent by Ray Tomlinson to himself in 1971.", tags: []string{"email", "history", "internet"}},
	{text: "Rust has been voted the most loved programming language for multiple years.", tags: []string{"rust", "programming", "survey"}},
	{text: "Docker containers share the host OS kernel, making them lighter than VMs.", tags: []string{"docker", "devops", "containers"}},
	{text: "Kubernetes was originally developed by Google and is now maintained by CNCF.", tags: []string{"kubernetes", "devops", "cloud"}},
	{text: "PostgreSQL started as a project at UC Berkeley in 1986.", tags: []string{"postgresql", "database", "history"}},
}

var tipEntries = []curatedEntry{
	{text: "Use the Pomodoro Technique: 25 minutes of focused work, 5 minutes break.", tags: []string{"productivity", "time-management"}},
	{text: "Keep a daily journal to track progress and reflect on learnings.", tags: []string{"productivity", "self-improvement"}},
	{text: "Practice active listening by summarizing what others say before responding.", tags: []string{"communication", "relationships"}},
	{text: "Set SMART goals: Specific, Measurable, Achievable, Relevant, Time-bound.", tags: []string{"goals", "planning"}},
	{text: "Take regular breaks to prevent burnout and maintain creativity.", tags: []string{"health", "productivity"}},
	{text: "Learn to say no to protect your time and energy for what matters most.", tags: []string{"boundaries", "self-care"}},
	{text: "Review your code after a good night's sleep - fresh eyes catch more bugs.", tags: []string{"programming", "productivity"}},
	{text: "Document your decisions and their rationale for future reference.", tags: []string{"documentation", "work"}},
	{text: "Invest in a good chair and monitor setup - your body will thank you.", tags: []string{"health", "ergonomics"}},
	{text: "Automate repetitive tasks to free up time for creative work.", tags: []string{"automation", "productivity"}},
	{text: "Keep learning: dedicate at least 30 minutes daily to skill development.", tags: []string{"learning", "growth"}},
	{text: "Write tests before fixing bugs to ensure they don't come back.", tags: []string{"testing", "programming"}},
	{text: "Use version control for everything, not just code.", tags: []string{"git", "organization"}},
	{text: "Take walks to boost creativity and problem-solving ability.", tags: []string{"health", "creativity"}},
	{text: "Teach others what you learn - it's the best way to solidify knowledge.", tags: []string{"learning", "teaching"}},
}
