package builder

import (
	"github.com/lyzr/stateflow/condition"
	"github.com/lyzr/stateflow/optpath"
	"github.com/lyzr/stateflow/statemachine"
)

// common is embedded in every per-variant builder; it factors out the
// Comment/InputPath/OutputPath/ResultPath setters every state shares.
type common struct {
	c statemachine.Common
}

func (b *common) Comment(s string) *common {
	b.c.Comment = s
	return b
}

func (b *common) InputPath(p optpath.Path) *common {
	b.c.InputPath = p
	return b
}

func (b *common) OutputPath(p optpath.Path) *common {
	b.c.OutputPath = p
	return b
}

func (b *common) ResultPath(p optpath.Path) *common {
	b.c.ResultPath = p
	return b
}

// --- Pass ---

type PassBuilder struct {
	common
	s statemachine.PassState
}

func NewPass() *PassBuilder { return &PassBuilder{} }

func (b *PassBuilder) Comment(s string) *PassBuilder       { b.common.Comment(s); return b }
func (b *PassBuilder) InputPath(p optpath.Path) *PassBuilder  { b.common.InputPath(p); return b }
func (b *PassBuilder) OutputPath(p optpath.Path) *PassBuilder { b.common.OutputPath(p); return b }
func (b *PassBuilder) ResultPath(p optpath.Path) *PassBuilder { b.common.ResultPath(p); return b }

func (b *PassBuilder) Result(v interface{}) *PassBuilder {
	b.s.Result = v
	return b
}

func (b *PassBuilder) Parameters(v interface{}) *PassBuilder {
	b.s.Parameters = v
	return b
}

func (b *PassBuilder) Next(name string) *PassBuilder {
	b.s.Transition = statemachine.NextTo(name)
	return b
}

func (b *PassBuilder) End() *PassBuilder {
	b.s.Transition = statemachine.EndTransition()
	return b
}

func (b *PassBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	st := b.s
	return &st
}

// --- Task ---

type TaskBuilder struct {
	common
	s        statemachine.TaskState
	retriers []*RetrierBuilder
	catchers []*CatcherBuilder
}

func NewTask(resource string) *TaskBuilder {
	return &TaskBuilder{s: statemachine.TaskState{Resource: resource}}
}

func (b *TaskBuilder) Comment(s string) *TaskBuilder       { b.common.Comment(s); return b }
func (b *TaskBuilder) InputPath(p optpath.Path) *TaskBuilder  { b.common.InputPath(p); return b }
func (b *TaskBuilder) OutputPath(p optpath.Path) *TaskBuilder { b.common.OutputPath(p); return b }
func (b *TaskBuilder) ResultPath(p optpath.Path) *TaskBuilder { b.common.ResultPath(p); return b }

func (b *TaskBuilder) TimeoutSeconds(seconds int) *TaskBuilder {
	b.s.TimeoutSeconds = &seconds
	return b
}

func (b *TaskBuilder) TimeoutSecondsPath(path string) *TaskBuilder {
	b.s.TimeoutSecondsPath = path
	return b
}

func (b *TaskBuilder) HeartbeatSeconds(seconds int) *TaskBuilder {
	b.s.HeartbeatSeconds = &seconds
	return b
}

func (b *TaskBuilder) HeartbeatSecondsPath(path string) *TaskBuilder {
	b.s.HeartbeatSecondsPath = path
	return b
}

func (b *TaskBuilder) Retry(r *RetrierBuilder) *TaskBuilder {
	b.retriers = append(b.retriers, r)
	return b
}

func (b *TaskBuilder) Catch(c *CatcherBuilder) *TaskBuilder {
	b.catchers = append(b.catchers, c)
	return b
}

func (b *TaskBuilder) Parameters(v interface{}) *TaskBuilder {
	b.s.Parameters = v
	return b
}

func (b *TaskBuilder) ResultSelector(v interface{}) *TaskBuilder {
	b.s.ResultSelector = v
	return b
}

func (b *TaskBuilder) Next(name string) *TaskBuilder {
	b.s.Transition = statemachine.NextTo(name)
	return b
}

func (b *TaskBuilder) End() *TaskBuilder {
	b.s.Transition = statemachine.EndTransition()
	return b
}

func (b *TaskBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	b.s.Retriers = buildRetriers(b.retriers)
	b.s.Catchers = buildCatchers(b.catchers)
	st := b.s
	return &st
}

// --- Choice ---

type ChoiceBuilder struct {
	common
	s statemachine.ChoiceState
}

func NewChoice() *ChoiceBuilder { return &ChoiceBuilder{} }

func (b *ChoiceBuilder) Comment(s string) *ChoiceBuilder      { b.common.Comment(s); return b }
func (b *ChoiceBuilder) InputPath(p optpath.Path) *ChoiceBuilder  { b.common.InputPath(p); return b }
func (b *ChoiceBuilder) OutputPath(p optpath.Path) *ChoiceBuilder { b.common.OutputPath(p); return b }

// Rule appends one choice rule: when cond holds, transition to next.
func (b *ChoiceBuilder) Rule(cond condition.Condition, next string) *ChoiceBuilder {
	b.s.Choices = append(b.s.Choices, statemachine.Choice{Condition: cond, Next: next})
	return b
}

func (b *ChoiceBuilder) Default(name string) *ChoiceBuilder {
	b.s.Default = name
	return b
}

func (b *ChoiceBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	st := b.s
	return &st
}

// --- Wait ---

type WaitBuilder struct {
	common
	s statemachine.WaitState
}

func NewWait() *WaitBuilder { return &WaitBuilder{} }

func (b *WaitBuilder) Comment(s string)       *WaitBuilder { b.common.Comment(s); return b }
func (b *WaitBuilder) InputPath(p optpath.Path)  *WaitBuilder { b.common.InputPath(p); return b }
func (b *WaitBuilder) OutputPath(p optpath.Path) *WaitBuilder { b.common.OutputPath(p); return b }

func (b *WaitBuilder) Seconds(seconds int) *WaitBuilder {
	b.s.WaitFor = statemachine.WaitFor{Kind: statemachine.WaitSeconds, Seconds: seconds}
	return b
}

func (b *WaitBuilder) SecondsPath(path string) *WaitBuilder {
	b.s.WaitFor = statemachine.WaitFor{Kind: statemachine.WaitSecondsPath, Path: path}
	return b
}

func (b *WaitBuilder) Timestamp(ts string) *WaitBuilder {
	b.s.WaitFor = statemachine.WaitFor{Kind: statemachine.WaitTimestamp, Timestamp: ts}
	return b
}

func (b *WaitBuilder) TimestampPath(path string) *WaitBuilder {
	b.s.WaitFor = statemachine.WaitFor{Kind: statemachine.WaitTimestampPath, Path: path}
	return b
}

func (b *WaitBuilder) Next(name string) *WaitBuilder {
	b.s.Transition = statemachine.NextTo(name)
	return b
}

func (b *WaitBuilder) End() *WaitBuilder {
	b.s.Transition = statemachine.EndTransition()
	return b
}

func (b *WaitBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	st := b.s
	return &st
}

// --- Succeed ---

type SucceedBuilder struct {
	common
	s statemachine.SucceedState
}

func NewSucceed() *SucceedBuilder { return &SucceedBuilder{} }

func (b *SucceedBuilder) Comment(s string)       *SucceedBuilder { b.common.Comment(s); return b }
func (b *SucceedBuilder) InputPath(p optpath.Path)  *SucceedBuilder { b.common.InputPath(p); return b }
func (b *SucceedBuilder) OutputPath(p optpath.Path) *SucceedBuilder { b.common.OutputPath(p); return b }

func (b *SucceedBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	st := b.s
	return &st
}

// --- Fail ---

type FailBuilder struct {
	common
	s statemachine.FailState
}

func NewFail() *FailBuilder { return &FailBuilder{} }

func (b *FailBuilder) Comment(s string) *FailBuilder { b.common.Comment(s); return b }

func (b *FailBuilder) Error(msg string) *FailBuilder {
	b.s.Error = msg
	return b
}

func (b *FailBuilder) ErrorPath(path string) *FailBuilder {
	b.s.ErrorPath = path
	return b
}

func (b *FailBuilder) Cause(msg string) *FailBuilder {
	b.s.Cause = msg
	return b
}

func (b *FailBuilder) CausePath(path string) *FailBuilder {
	b.s.CausePath = path
	return b
}

func (b *FailBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	st := b.s
	return &st
}

// --- Parallel ---

type ParallelBuilder struct {
	common
	s        statemachine.ParallelState
	branches []*SubMachineBuilder
	retriers []*RetrierBuilder
	catchers []*CatcherBuilder
}

func NewParallel() *ParallelBuilder { return &ParallelBuilder{} }

func (b *ParallelBuilder) Comment(s string)       *ParallelBuilder { b.common.Comment(s); return b }
func (b *ParallelBuilder) InputPath(p optpath.Path)  *ParallelBuilder { b.common.InputPath(p); return b }
func (b *ParallelBuilder) OutputPath(p optpath.Path) *ParallelBuilder { b.common.OutputPath(p); return b }
func (b *ParallelBuilder) ResultPath(p optpath.Path) *ParallelBuilder { b.common.ResultPath(p); return b }

func (b *ParallelBuilder) Branch(sb *SubMachineBuilder) *ParallelBuilder {
	b.branches = append(b.branches, sb)
	return b
}

func (b *ParallelBuilder) Retry(r *RetrierBuilder) *ParallelBuilder {
	b.retriers = append(b.retriers, r)
	return b
}

func (b *ParallelBuilder) Catch(c *CatcherBuilder) *ParallelBuilder {
	b.catchers = append(b.catchers, c)
	return b
}

func (b *ParallelBuilder) Next(name string) *ParallelBuilder {
	b.s.Transition = statemachine.NextTo(name)
	return b
}

func (b *ParallelBuilder) End() *ParallelBuilder {
	b.s.Transition = statemachine.EndTransition()
	return b
}

func (b *ParallelBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	for _, br := range b.branches {
		b.s.Branches = append(b.s.Branches, br.build())
	}
	b.s.Retriers = buildRetriers(b.retriers)
	b.s.Catchers = buildCatchers(b.catchers)
	st := b.s
	return &st
}

// --- Map ---

type MapBuilder struct {
	common
	s             statemachine.MapState
	itemProcessor *SubMachineBuilder
	retriers      []*RetrierBuilder
	catchers      []*CatcherBuilder
}

func NewMap() *MapBuilder { return &MapBuilder{} }

func (b *MapBuilder) Comment(s string)       *MapBuilder { b.common.Comment(s); return b }
func (b *MapBuilder) InputPath(p optpath.Path)  *MapBuilder { b.common.InputPath(p); return b }
func (b *MapBuilder) OutputPath(p optpath.Path) *MapBuilder { b.common.OutputPath(p); return b }
func (b *MapBuilder) ResultPath(p optpath.Path) *MapBuilder { b.common.ResultPath(p); return b }

func (b *MapBuilder) ItemProcessor(sb *SubMachineBuilder) *MapBuilder {
	b.itemProcessor = sb
	return b
}

func (b *MapBuilder) ItemsPath(path string) *MapBuilder {
	b.s.ItemsPath = path
	return b
}

func (b *MapBuilder) MaxConcurrency(n int) *MapBuilder {
	b.s.MaxConcurrency = &n
	return b
}

func (b *MapBuilder) ItemSelector(v interface{}) *MapBuilder {
	b.s.ItemSelector = v
	return b
}

func (b *MapBuilder) Retry(r *RetrierBuilder) *MapBuilder {
	b.retriers = append(b.retriers, r)
	return b
}

func (b *MapBuilder) Catch(c *CatcherBuilder) *MapBuilder {
	b.catchers = append(b.catchers, c)
	return b
}

func (b *MapBuilder) Next(name string) *MapBuilder {
	b.s.Transition = statemachine.NextTo(name)
	return b
}

func (b *MapBuilder) End() *MapBuilder {
	b.s.Transition = statemachine.EndTransition()
	return b
}

func (b *MapBuilder) build() statemachine.State {
	b.s.Common = b.common.c
	if b.itemProcessor != nil {
		b.s.ItemProcessor = b.itemProcessor.build()
	}
	b.s.Retriers = buildRetriers(b.retriers)
	b.s.Catchers = buildCatchers(b.catchers)
	st := b.s
	return &st
}
