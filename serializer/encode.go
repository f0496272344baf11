package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/lyzr/stateflow/condition"
	"github.com/lyzr/stateflow/optpath"
	"github.com/lyzr/stateflow/statemachine"
)

// pair is one key/value slot of an orderedMap.
type pair struct {
	Key   string
	Value interface{}
}

// orderedMap renders as a JSON object whose keys appear in insertion
// order rather than the alphabetical order encoding/json imposes on a
// plain map — the only way StateMap's declaration order (and the
// ASL-conventional field order within a state) survives a round trip.
type orderedMap []pair

func (o orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeMachine(sm *statemachine.StateMachine) (orderedMap, error) {
	var om orderedMap
	if sm.Comment != "" {
		om = append(om, pair{"Comment", sm.Comment})
	}
	om = append(om, pair{"StartAt", sm.StartAt})
	if sm.TimeoutSeconds != nil {
		om = append(om, pair{"TimeoutSeconds", *sm.TimeoutSeconds})
	}
	states, err := encodeStates(sm.States)
	if err != nil {
		return nil, err
	}
	om = append(om, pair{"States", states})
	return om, nil
}

func encodeStates(sm *statemachine.StateMap) (orderedMap, error) {
	var om orderedMap
	for _, name := range sm.Keys() {
		st, _ := sm.Get(name)
		enc, err := encodeState(st)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", name, err)
		}
		om = append(om, pair{name, enc})
	}
	return om, nil
}

func encodeSubMachine(sm *statemachine.SubStateMachine) (orderedMap, error) {
	var om orderedMap
	if sm.Comment != "" {
		om = append(om, pair{"Comment", sm.Comment})
	}
	om = append(om, pair{"StartAt", sm.StartAt})
	states, err := encodeStates(sm.States)
	if err != nil {
		return nil, err
	}
	om = append(om, pair{"States", states})
	return om, nil
}

func encodeCommon(om orderedMap, c statemachine.Common, withResultPath bool) orderedMap {
	if c.Comment != "" {
		om = append(om, pair{"Comment", c.Comment})
	}
	om = appendOptPath(om, "InputPath", c.InputPath)
	om = appendOptPath(om, "OutputPath", c.OutputPath)
	if withResultPath {
		om = appendOptPath(om, "ResultPath", c.ResultPath)
	}
	return om
}

func appendOptPath(om orderedMap, key string, p optpath.Path) orderedMap {
	if p.IsUnset() {
		return om
	}
	if p.IsNull() {
		return append(om, pair{key, nil})
	}
	return append(om, pair{key, p.Value()})
}

func appendTransition(om orderedMap, t statemachine.Transition) orderedMap {
	switch t.Kind {
	case statemachine.TransitionNext:
		om = append(om, pair{"Next", t.Next})
	case statemachine.TransitionEnd:
		om = append(om, pair{"End", true})
	}
	return om
}

func encodeState(st statemachine.State) (orderedMap, error) {
	switch s := st.(type) {
	case *statemachine.PassState:
		return encodePass(s), nil
	case *statemachine.TaskState:
		return encodeTask(s)
	case *statemachine.ChoiceState:
		return encodeChoice(s)
	case *statemachine.WaitState:
		return encodeWait(s), nil
	case *statemachine.SucceedState:
		return encodeSucceed(s), nil
	case *statemachine.FailState:
		return encodeFail(s), nil
	case *statemachine.ParallelState:
		return encodeParallel(s)
	case *statemachine.MapState:
		return encodeMap(s)
	default:
		return nil, fmt.Errorf("unknown state type %T", st)
	}
}

func encodePass(s *statemachine.PassState) orderedMap {
	om := orderedMap{{"Type", "Pass"}}
	om = encodeCommon(om, s.Common, true)
	if s.Result != nil {
		om = append(om, pair{"Result", s.Result})
	}
	if s.Parameters != nil {
		om = append(om, pair{"Parameters", s.Parameters})
	}
	om = appendTransition(om, s.Transition)
	return om
}

func encodeTask(s *statemachine.TaskState) (orderedMap, error) {
	om := orderedMap{{"Type", "Task"}}
	om = encodeCommon(om, s.Common, true)
	om = append(om, pair{"Resource", s.Resource})
	if s.TimeoutSeconds != nil {
		om = append(om, pair{"TimeoutSeconds", *s.TimeoutSeconds})
	}
	if s.TimeoutSecondsPath != "" {
		om = append(om, pair{"TimeoutSecondsPath", s.TimeoutSecondsPath})
	}
	if s.HeartbeatSeconds != nil {
		om = append(om, pair{"HeartbeatSeconds", *s.HeartbeatSeconds})
	}
	if s.HeartbeatSecondsPath != "" {
		om = append(om, pair{"HeartbeatSecondsPath", s.HeartbeatSecondsPath})
	}
	if len(s.Retriers) > 0 {
		om = append(om, pair{"Retry", encodeRetriers(s.Retriers)})
	}
	if len(s.Catchers) > 0 {
		om = append(om, pair{"Catch", encodeCatchers(s.Catchers)})
	}
	if s.Parameters != nil {
		om = append(om, pair{"Parameters", s.Parameters})
	}
	if s.ResultSelector != nil {
		om = append(om, pair{"ResultSelector", s.ResultSelector})
	}
	om = appendTransition(om, s.Transition)
	return om, nil
}

func encodeRetriers(rs []statemachine.Retrier) []orderedMap {
	out := make([]orderedMap, len(rs))
	for i, r := range rs {
		om := orderedMap{{"ErrorEquals", r.ErrorEquals}}
		if r.IntervalSeconds != nil {
			om = append(om, pair{"IntervalSeconds", *r.IntervalSeconds})
		}
		if r.MaxAttempts != nil {
			om = append(om, pair{"MaxAttempts", *r.MaxAttempts})
		}
		if r.BackoffRate != nil {
			om = append(om, pair{"BackoffRate", *r.BackoffRate})
		}
		if r.MaxDelaySeconds != nil {
			om = append(om, pair{"MaxDelaySeconds", *r.MaxDelaySeconds})
		}
		if r.JitterStrategy != "" {
			om = append(om, pair{"JitterStrategy", r.JitterStrategy})
		}
		out[i] = om
	}
	return out
}

func encodeCatchers(cs []statemachine.Catcher) []orderedMap {
	out := make([]orderedMap, len(cs))
	for i, c := range cs {
		om := orderedMap{{"ErrorEquals", c.ErrorEquals}}
		om = appendOptPath(om, "ResultPath", c.ResultPath)
		om = append(om, pair{"Next", c.Next})
		out[i] = om
	}
	return out
}

func encodeChoice(s *statemachine.ChoiceState) (orderedMap, error) {
	om := orderedMap{{"Type", "Choice"}}
	om = encodeCommon(om, s.Common, false)
	choices := make([]orderedMap, len(s.Choices))
	for i, c := range s.Choices {
		fields, err := condition.Encode(c.Condition)
		if err != nil {
			return nil, fmt.Errorf("choices[%d]: %w", i, err)
		}
		com := conditionFieldsOrdered(fields)
		com = append(com, pair{"Next", c.Next})
		choices[i] = com
	}
	om = append(om, pair{"Choices", choices})
	if s.Default != "" {
		om = append(om, pair{"Default", s.Default})
	}
	return om, nil
}

// conditionFieldsOrdered gives condition.Encode's map a deterministic
// key order: Variable first (if present), then whatever single operator
// key the map carries.
func conditionFieldsOrdered(m map[string]interface{}) orderedMap {
	var om orderedMap
	if v, ok := m["Variable"]; ok {
		om = append(om, pair{"Variable", v})
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "Variable" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		om = append(om, pair{k, m[k]})
	}
	return om
}

func encodeWait(s *statemachine.WaitState) orderedMap {
	om := orderedMap{{"Type", "Wait"}}
	om = encodeCommon(om, s.Common, false)
	switch s.WaitFor.Kind {
	case statemachine.WaitSeconds:
		om = append(om, pair{"Seconds", s.WaitFor.Seconds})
	case statemachine.WaitSecondsPath:
		om = append(om, pair{"SecondsPath", s.WaitFor.Path})
	case statemachine.WaitTimestamp:
		om = append(om, pair{"Timestamp", s.WaitFor.Timestamp})
	case statemachine.WaitTimestampPath:
		om = append(om, pair{"TimestampPath", s.WaitFor.Path})
	}
	om = appendTransition(om, s.Transition)
	return om
}

func encodeSucceed(s *statemachine.SucceedState) orderedMap {
	om := orderedMap{{"Type", "Succeed"}}
	om = encodeCommon(om, s.Common, false)
	return om
}

func encodeFail(s *statemachine.FailState) orderedMap {
	om := orderedMap{{"Type", "Fail"}}
	if s.Common.Comment != "" {
		om = append(om, pair{"Comment", s.Common.Comment})
	}
	if s.Error != "" {
		om = append(om, pair{"Error", s.Error})
	}
	if s.ErrorPath != "" {
		om = append(om, pair{"ErrorPath", s.ErrorPath})
	}
	if s.Cause != "" {
		om = append(om, pair{"Cause", s.Cause})
	}
	if s.CausePath != "" {
		om = append(om, pair{"CausePath", s.CausePath})
	}
	return om
}

func encodeParallel(s *statemachine.ParallelState) (orderedMap, error) {
	om := orderedMap{{"Type", "Parallel"}}
	om = encodeCommon(om, s.Common, true)
	branches := make([]orderedMap, len(s.Branches))
	for i, b := range s.Branches {
		enc, err := encodeSubMachine(b)
		if err != nil {
			return nil, fmt.Errorf("branches[%d]: %w", i, err)
		}
		branches[i] = enc
	}
	om = append(om, pair{"Branches", branches})
	if len(s.Retriers) > 0 {
		om = append(om, pair{"Retry", encodeRetriers(s.Retriers)})
	}
	if len(s.Catchers) > 0 {
		om = append(om, pair{"Catch", encodeCatchers(s.Catchers)})
	}
	om = appendTransition(om, s.Transition)
	return om, nil
}

func encodeMap(s *statemachine.MapState) (orderedMap, error) {
	om := orderedMap{{"Type", "Map"}}
	om = encodeCommon(om, s.Common, true)
	if s.ItemProcessor == nil {
		return nil, fmt.Errorf("itemProcessor is unset")
	}
	ip, err := encodeSubMachine(s.ItemProcessor)
	if err != nil {
		return nil, fmt.Errorf("itemProcessor: %w", err)
	}
	om = append(om, pair{"ItemProcessor", ip})
	if s.ItemsPath != "" {
		om = append(om, pair{"ItemsPath", s.ItemsPath})
	}
	if s.MaxConcurrency != nil {
		om = append(om, pair{"MaxConcurrency", *s.MaxConcurrency})
	}
	if s.ItemSelector != nil {
		om = append(om, pair{"ItemSelector", s.ItemSelector})
	}
	if len(s.Retriers) > 0 {
		om = append(om, pair{"Retry", encodeRetriers(s.Retriers)})
	}
	if len(s.Catchers) > 0 {
		om = append(om, pair{"Catch", encodeCatchers(s.Catchers)})
	}
	om = appendTransition(om, s.Transition)
	return om, nil
}
