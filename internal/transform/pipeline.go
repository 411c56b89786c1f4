// Package transform implements the ordered stream-to-stream transforms
// that turn a raw cast event sequence into a compact, deduplicated
// chronological "story" suitable for analysis.
package transform

import "github.com/dcosson/castrec/internal/cast"

// Stage transforms a sequence of events into another sequence. Some stages
// keep state on the Stage value across calls to Transform (e.g.
// TerminalTransform's virtual terminal and dedup window,
// DeduplicateProgressLines' DedupCount), so a Stage is typically used once
// per cast and then discarded.
type Stage interface {
	Transform(events []cast.Event) []cast.Event
}

// Pipeline runs a fixed ordered sequence of stages.
type Pipeline struct {
	stages []Stage
}

// NewPipeline builds a pipeline that runs stages in the given order.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run applies every stage in order, feeding each stage's output to the next.
func (p *Pipeline) Run(events []cast.Event) []cast.Event {
	for _, s := range p.stages {
		events = s.Transform(events)
	}
	return events
}

// DefaultAnalysisPipeline builds the standard analysis pipeline from
// spec.md §4.C: clean, dedup progress lines, normalize whitespace, filter
// empty events, then extract the rendered story.
func DefaultAnalysisPipeline(cfg StoryConfig) *Pipeline {
	return NewPipeline(
		ContentCleaner{},
		&DeduplicateProgressLines{},
		NormalizeWhitespace{MaxConsecutiveNewlines: 2},
		FilterEmptyEvents{},
		NewTerminalTransform(cfg),
	)
}
