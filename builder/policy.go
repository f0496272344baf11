package builder

import (
	"github.com/lyzr/stateflow/optpath"
	"github.com/lyzr/stateflow/statemachine"
)

// RetrierBuilder assembles one Retrier entry.
type RetrierBuilder struct {
	r statemachine.Retrier
}

func NewRetrier(errorEquals ...string) *RetrierBuilder {
	return &RetrierBuilder{r: statemachine.Retrier{ErrorEquals: errorEquals}}
}

func (b *RetrierBuilder) IntervalSeconds(seconds int) *RetrierBuilder {
	b.r.IntervalSeconds = &seconds
	return b
}

func (b *RetrierBuilder) MaxAttempts(n int) *RetrierBuilder {
	b.r.MaxAttempts = &n
	return b
}

func (b *RetrierBuilder) BackoffRate(rate float64) *RetrierBuilder {
	b.r.BackoffRate = &rate
	return b
}

func (b *RetrierBuilder) MaxDelaySeconds(seconds int) *RetrierBuilder {
	b.r.MaxDelaySeconds = &seconds
	return b
}

func (b *RetrierBuilder) JitterStrategy(strategy string) *RetrierBuilder {
	b.r.JitterStrategy = strategy
	return b
}

func (b *RetrierBuilder) build() statemachine.Retrier { return b.r }

// CatcherBuilder assembles one Catcher entry.
type CatcherBuilder struct {
	c statemachine.Catcher
}

func NewCatcher(next string, errorEquals ...string) *CatcherBuilder {
	return &CatcherBuilder{c: statemachine.Catcher{ErrorEquals: errorEquals, Next: next}}
}

func (b *CatcherBuilder) ResultPath(path optpath.Path) *CatcherBuilder {
	b.c.ResultPath = path
	return b
}

func (b *CatcherBuilder) build() statemachine.Catcher { return b.c }

func buildRetriers(bs []*RetrierBuilder) []statemachine.Retrier {
	out := make([]statemachine.Retrier, len(bs))
	for i, rb := range bs {
		out[i] = rb.build()
	}
	return out
}

func buildCatchers(bs []*CatcherBuilder) []statemachine.Catcher {
	out := make([]statemachine.Catcher, len(bs))
	for i, cb := range bs {
		out[i] = cb.build()
	}
	return out
}
