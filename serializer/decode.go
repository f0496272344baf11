package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/lyzr/stateflow/aslerrors"
	"github.com/lyzr/stateflow/builder"
	"github.com/lyzr/stateflow/condition"
	"github.com/lyzr/stateflow/optpath"
	"github.com/lyzr/stateflow/statemachine"
)

// orderedObject is a decoded JSON object that keeps its key order and
// each value's raw bytes, so a nested "States" object can be re-decoded
// without losing the declaration order a plain map[string]interface{}
// would discard.
type orderedObject struct {
	Keys []string
	Raw  map[string]json.RawMessage
}

func decodeOrderedObject(data []byte) (*orderedObject, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	oo := &orderedObject{Raw: map[string]json.RawMessage{}}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected an object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := oo.Raw[key]; dup {
			return nil, fmt.Errorf("duplicate field %q", key)
		}
		oo.Keys = append(oo.Keys, key)
		oo.Raw[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return oo, nil
}

func rawString(oo *orderedObject, key string) (string, bool, error) {
	raw, ok := oo.Raw[key]
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", true, fmt.Errorf("%s must be a string", key)
	}
	return s, true, nil
}

func rawAny(oo *orderedObject, key string) (interface{}, bool, error) {
	raw, ok := oo.Raw[key]
	if !ok {
		return nil, false, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, true, fmt.Errorf("%s: %w", key, err)
	}
	return v, true, nil
}

func rawOptPath(oo *orderedObject, key string) (optpath.Path, error) {
	raw, ok := oo.Raw[key]
	if !ok {
		return optpath.Unset(), nil
	}
	if string(raw) == "null" {
		return optpath.Null(), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return optpath.Path{}, fmt.Errorf("%s must be a string or null", key)
	}
	return optpath.Of(s), nil
}

func rawInt(oo *orderedObject, key string) (*int, error) {
	raw, ok := oo.Raw[key]
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	n := int(f)
	return &n, nil
}

func rawBool(oo *orderedObject, key string) (bool, bool, error) {
	raw, ok := oo.Raw[key]
	if !ok {
		return false, false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, true, fmt.Errorf("%s must be a boolean", key)
	}
	return b, true, nil
}

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

func checkAllowedKeys(keys []string, allowed map[string]bool, ctx string) error {
	for _, k := range keys {
		if !allowed[k] {
			return fmt.Errorf("%s: unknown field %q", ctx, k)
		}
	}
	return nil
}

func keysOf(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

var (
	topLevelKeys   = keySet("Comment", "StartAt", "TimeoutSeconds", "States")
	subMachineKeys = keySet("Comment", "StartAt", "States")
	passKeys       = keySet("Type", "Comment", "InputPath", "OutputPath", "ResultPath", "Result", "Parameters", "Next", "End")
	taskKeys       = keySet("Type", "Comment", "InputPath", "OutputPath", "ResultPath", "Resource", "TimeoutSeconds",
		"TimeoutSecondsPath", "HeartbeatSeconds", "HeartbeatSecondsPath", "Retry", "Catch", "Parameters",
		"ResultSelector", "Next", "End")
	choiceKeys   = keySet("Type", "Comment", "InputPath", "OutputPath", "Choices", "Default")
	waitKeys     = keySet("Type", "Comment", "InputPath", "OutputPath", "Seconds", "SecondsPath", "Timestamp", "TimestampPath", "Next", "End")
	succeedKeys  = keySet("Type", "Comment", "InputPath", "OutputPath")
	failKeys     = keySet("Type", "Comment", "Error", "ErrorPath", "Cause", "CausePath")
	parallelKeys = keySet("Type", "Comment", "InputPath", "OutputPath", "ResultPath", "Branches", "Retry", "Catch", "Next", "End")
	mapKeys      = keySet("Type", "Comment", "InputPath", "OutputPath", "ResultPath", "ItemProcessor", "ItemsPath",
		"MaxConcurrency", "ItemSelector", "Retry", "Catch", "Next", "End")
	retrierKeys = keySet("ErrorEquals", "IntervalSeconds", "MaxAttempts", "BackoffRate", "MaxDelaySeconds", "JitterStrategy")
	catcherKeys = keySet("ErrorEquals", "ResultPath", "Next")
)

// commonSetters lets applyCommon configure whichever per-variant builder
// is in play without every decode function hand-rolling the same four
// field reads.
type commonSetters struct {
	Comment    func(string)
	InputPath  func(optpath.Path)
	OutputPath func(optpath.Path)
	ResultPath func(optpath.Path) // nil for variants that don't support it (Choice, Wait, Succeed)
}

func applyCommon(oo *orderedObject, s commonSetters) error {
	if c, ok, err := rawString(oo, "Comment"); err != nil {
		return err
	} else if ok {
		s.Comment(c)
	}
	ip, err := rawOptPath(oo, "InputPath")
	if err != nil {
		return err
	}
	s.InputPath(ip)
	op, err := rawOptPath(oo, "OutputPath")
	if err != nil {
		return err
	}
	s.OutputPath(op)
	if s.ResultPath != nil {
		rp, err := rawOptPath(oo, "ResultPath")
		if err != nil {
			return err
		}
		s.ResultPath(rp)
	}
	return nil
}

func applyTransition(oo *orderedObject, setNext func(string), setEnd func()) error {
	_, hasNext := oo.Raw["Next"]
	_, hasEnd := oo.Raw["End"]
	if hasNext && hasEnd {
		return fmt.Errorf("Next and End are mutually exclusive")
	}
	if hasNext {
		s, _, err := rawString(oo, "Next")
		if err != nil {
			return err
		}
		setNext(s)
	} else if hasEnd {
		b, _, err := rawBool(oo, "End")
		if err != nil {
			return err
		}
		if b {
			setEnd()
		}
	}
	return nil
}

func asInt(v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	return int(f), nil
}

func asFloat(v interface{}) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	return f, nil
}

func decodeStringArrayFrom(m map[string]interface{}, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, nil
	}
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array", key)
	}
	out := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func decodeRetrier(m map[string]interface{}) (*builder.RetrierBuilder, error) {
	if err := checkAllowedKeys(keysOf(m), retrierKeys, "retrier"); err != nil {
		return nil, err
	}
	errs, err := decodeStringArrayFrom(m, "ErrorEquals")
	if err != nil {
		return nil, err
	}
	rb := builder.NewRetrier(errs...)
	if v, ok := m["IntervalSeconds"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("intervalSeconds: %w", err)
		}
		rb.IntervalSeconds(n)
	}
	if v, ok := m["MaxAttempts"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("maxAttempts: %w", err)
		}
		rb.MaxAttempts(n)
	}
	if v, ok := m["BackoffRate"]; ok {
		f, err := asFloat(v)
		if err != nil {
			return nil, fmt.Errorf("backoffRate: %w", err)
		}
		rb.BackoffRate(f)
	}
	if v, ok := m["MaxDelaySeconds"]; ok {
		n, err := asInt(v)
		if err != nil {
			return nil, fmt.Errorf("maxDelaySeconds: %w", err)
		}
		rb.MaxDelaySeconds(n)
	}
	if v, ok := m["JitterStrategy"]; ok {
		s, ok2 := v.(string)
		if !ok2 {
			return nil, fmt.Errorf("jitterStrategy must be a string")
		}
		rb.JitterStrategy(s)
	}
	return rb, nil
}

func decodeRetrierList(raw json.RawMessage) ([]*builder.RetrierBuilder, error) {
	var arr []map[string]interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("retry must be an array of objects: %w", err)
	}
	out := make([]*builder.RetrierBuilder, len(arr))
	for i, m := range arr {
		rb, err := decodeRetrier(m)
		if err != nil {
			return nil, fmt.Errorf("retry[%d]: %w", i, err)
		}
		out[i] = rb
	}
	return out, nil
}

func decodeCatcherList(raw json.RawMessage) ([]*builder.CatcherBuilder, error) {
	var arr []map[string]interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("catch must be an array of objects: %w", err)
	}
	out := make([]*builder.CatcherBuilder, len(arr))
	for i, m := range arr {
		if err := checkAllowedKeys(keysOf(m), catcherKeys, "catcher"); err != nil {
			return nil, fmt.Errorf("catch[%d]: %w", i, err)
		}
		errs, err := decodeStringArrayFrom(m, "ErrorEquals")
		if err != nil {
			return nil, fmt.Errorf("catch[%d]: %w", i, err)
		}
		next, ok := m["Next"].(string)
		if !ok {
			return nil, fmt.Errorf("catch[%d]: next is required", i)
		}
		cb := builder.NewCatcher(next, errs...)
		if rawRP, ok := m["ResultPath"]; ok {
			if rawRP == nil {
				cb.ResultPath(optpath.Null())
			} else if s, ok2 := rawRP.(string); ok2 {
				cb.ResultPath(optpath.Of(s))
			} else {
				return nil, fmt.Errorf("catch[%d]: resultPath must be a string or null", i)
			}
		}
		out[i] = cb
	}
	return out, nil
}

type namedState struct {
	Name    string
	Builder builder.StateBuilder
}

func decodeOrderedStates(raw json.RawMessage) ([]namedState, error) {
	oo, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, err
	}
	if len(oo.Keys) == 0 {
		return nil, fmt.Errorf("states must declare at least one state")
	}
	out := make([]namedState, 0, len(oo.Keys))
	for _, name := range oo.Keys {
		sb, err := decodeState(oo.Raw[name])
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", name, err)
		}
		out = append(out, namedState{Name: name, Builder: sb})
	}
	return out, nil
}

func decodeSubMachine(raw json.RawMessage) (*builder.SubMachineBuilder, error) {
	oo, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, err
	}
	if err := checkAllowedKeys(oo.Keys, subMachineKeys, "sub state machine"); err != nil {
		return nil, err
	}
	smb := builder.NewSubMachine()
	if c, ok, err := rawString(oo, "Comment"); err != nil {
		return nil, err
	} else if ok {
		smb.Comment(c)
	}
	startAt, ok, err := rawString(oo, "StartAt")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("startAt is required")
	}
	smb.StartAt(startAt)
	statesRaw, ok := oo.Raw["States"]
	if !ok {
		return nil, fmt.Errorf("states is required")
	}
	states, err := decodeOrderedStates(statesRaw)
	if err != nil {
		return nil, err
	}
	for _, ns := range states {
		smb.State(ns.Name, ns.Builder)
	}
	return smb, nil
}

func decodeState(raw json.RawMessage) (builder.StateBuilder, error) {
	oo, err := decodeOrderedObject(raw)
	if err != nil {
		return nil, err
	}
	typ, ok, err := rawString(oo, "Type")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("type is required")
	}
	switch typ {
	case "Pass":
		return decodePass(oo)
	case "Task":
		return decodeTask(oo)
	case "Choice":
		return decodeChoiceState(oo)
	case "Wait":
		return decodeWait(oo)
	case "Succeed":
		return decodeSucceed(oo)
	case "Fail":
		return decodeFail(oo)
	case "Parallel":
		return decodeParallel(oo)
	case "Map":
		return decodeMap(oo)
	default:
		return nil, fmt.Errorf("unknown state type %q", typ)
	}
}

func decodePass(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, passKeys, "Pass state"); err != nil {
		return nil, err
	}
	pb := builder.NewPass()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { pb.Comment(s) },
		InputPath:  func(p optpath.Path) { pb.InputPath(p) },
		OutputPath: func(p optpath.Path) { pb.OutputPath(p) },
		ResultPath: func(p optpath.Path) { pb.ResultPath(p) },
	}); err != nil {
		return nil, err
	}
	if v, ok, err := rawAny(oo, "Result"); err != nil {
		return nil, err
	} else if ok {
		pb.Result(v)
	}
	if v, ok, err := rawAny(oo, "Parameters"); err != nil {
		return nil, err
	} else if ok {
		pb.Parameters(v)
	}
	if err := applyTransition(oo, pb.Next, pb.End); err != nil {
		return nil, err
	}
	return pb, nil
}

func decodeTask(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, taskKeys, "Task state"); err != nil {
		return nil, err
	}
	resource, ok, err := rawString(oo, "Resource")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("resource is required")
	}
	tb := builder.NewTask(resource)
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { tb.Comment(s) },
		InputPath:  func(p optpath.Path) { tb.InputPath(p) },
		OutputPath: func(p optpath.Path) { tb.OutputPath(p) },
		ResultPath: func(p optpath.Path) { tb.ResultPath(p) },
	}); err != nil {
		return nil, err
	}
	if n, err := rawInt(oo, "TimeoutSeconds"); err != nil {
		return nil, err
	} else if n != nil {
		tb.TimeoutSeconds(*n)
	}
	if s, ok, err := rawString(oo, "TimeoutSecondsPath"); err != nil {
		return nil, err
	} else if ok {
		tb.TimeoutSecondsPath(s)
	}
	if n, err := rawInt(oo, "HeartbeatSeconds"); err != nil {
		return nil, err
	} else if n != nil {
		tb.HeartbeatSeconds(*n)
	}
	if s, ok, err := rawString(oo, "HeartbeatSecondsPath"); err != nil {
		return nil, err
	} else if ok {
		tb.HeartbeatSecondsPath(s)
	}
	if raw, ok := oo.Raw["Retry"]; ok {
		retriers, err := decodeRetrierList(raw)
		if err != nil {
			return nil, err
		}
		for _, rb := range retriers {
			tb.Retry(rb)
		}
	}
	if raw, ok := oo.Raw["Catch"]; ok {
		catchers, err := decodeCatcherList(raw)
		if err != nil {
			return nil, err
		}
		for _, cb := range catchers {
			tb.Catch(cb)
		}
	}
	if v, ok, err := rawAny(oo, "Parameters"); err != nil {
		return nil, err
	} else if ok {
		tb.Parameters(v)
	}
	if v, ok, err := rawAny(oo, "ResultSelector"); err != nil {
		return nil, err
	} else if ok {
		tb.ResultSelector(v)
	}
	if err := applyTransition(oo, tb.Next, tb.End); err != nil {
		return nil, err
	}
	return tb, nil
}

func decodeChoiceState(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, choiceKeys, "Choice state"); err != nil {
		return nil, err
	}
	cb := builder.NewChoice()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { cb.Comment(s) },
		InputPath:  func(p optpath.Path) { cb.InputPath(p) },
		OutputPath: func(p optpath.Path) { cb.OutputPath(p) },
	}); err != nil {
		return nil, err
	}
	raw, ok := oo.Raw["Choices"]
	if !ok {
		return nil, fmt.Errorf("choices is required")
	}
	var arr []map[string]interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("choices must be an array of objects: %w", err)
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("choices must be non-empty")
	}
	for i, m := range arr {
		next, ok := m["Next"].(string)
		if !ok {
			return nil, fmt.Errorf("choices[%d]: next is required", i)
		}
		cond, err := condition.Decode(m)
		if err != nil {
			return nil, fmt.Errorf("choices[%d]: %w", i, err)
		}
		cb.Rule(cond, next)
	}
	if d, ok, err := rawString(oo, "Default"); err != nil {
		return nil, err
	} else if ok {
		cb.Default(d)
	}
	return cb, nil
}

func decodeWait(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, waitKeys, "Wait state"); err != nil {
		return nil, err
	}
	wb := builder.NewWait()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { wb.Comment(s) },
		InputPath:  func(p optpath.Path) { wb.InputPath(p) },
		OutputPath: func(p optpath.Path) { wb.OutputPath(p) },
	}); err != nil {
		return nil, err
	}
	count := 0
	if n, err := rawInt(oo, "Seconds"); err != nil {
		return nil, err
	} else if n != nil {
		wb.Seconds(*n)
		count++
	}
	if s, ok, err := rawString(oo, "SecondsPath"); err != nil {
		return nil, err
	} else if ok {
		wb.SecondsPath(s)
		count++
	}
	if s, ok, err := rawString(oo, "Timestamp"); err != nil {
		return nil, err
	} else if ok {
		wb.Timestamp(s)
		count++
	}
	if s, ok, err := rawString(oo, "TimestampPath"); err != nil {
		return nil, err
	} else if ok {
		wb.TimestampPath(s)
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of seconds/secondsPath/timestamp/timestampPath must be set")
	}
	if err := applyTransition(oo, wb.Next, wb.End); err != nil {
		return nil, err
	}
	return wb, nil
}

func decodeSucceed(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, succeedKeys, "Succeed state"); err != nil {
		return nil, err
	}
	sb := builder.NewSucceed()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { sb.Comment(s) },
		InputPath:  func(p optpath.Path) { sb.InputPath(p) },
		OutputPath: func(p optpath.Path) { sb.OutputPath(p) },
	}); err != nil {
		return nil, err
	}
	return sb, nil
}

func decodeFail(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, failKeys, "Fail state"); err != nil {
		return nil, err
	}
	fb := builder.NewFail()
	if c, ok, err := rawString(oo, "Comment"); err != nil {
		return nil, err
	} else if ok {
		fb.Comment(c)
	}
	if v, ok, err := rawString(oo, "Error"); err != nil {
		return nil, err
	} else if ok {
		fb.Error(v)
	}
	if v, ok, err := rawString(oo, "ErrorPath"); err != nil {
		return nil, err
	} else if ok {
		fb.ErrorPath(v)
	}
	if v, ok, err := rawString(oo, "Cause"); err != nil {
		return nil, err
	} else if ok {
		fb.Cause(v)
	}
	if v, ok, err := rawString(oo, "CausePath"); err != nil {
		return nil, err
	} else if ok {
		fb.CausePath(v)
	}
	return fb, nil
}

func decodeParallel(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, parallelKeys, "Parallel state"); err != nil {
		return nil, err
	}
	pb := builder.NewParallel()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { pb.Comment(s) },
		InputPath:  func(p optpath.Path) { pb.InputPath(p) },
		OutputPath: func(p optpath.Path) { pb.OutputPath(p) },
		ResultPath: func(p optpath.Path) { pb.ResultPath(p) },
	}); err != nil {
		return nil, err
	}
	branchesRaw, ok := oo.Raw["Branches"]
	if !ok {
		return nil, fmt.Errorf("branches is required")
	}
	var rawBranches []json.RawMessage
	if err := json.Unmarshal(branchesRaw, &rawBranches); err != nil {
		return nil, fmt.Errorf("branches must be an array: %w", err)
	}
	if len(rawBranches) == 0 {
		return nil, fmt.Errorf("branches must be non-empty")
	}
	for i, br := range rawBranches {
		smb, err := decodeSubMachine(br)
		if err != nil {
			return nil, fmt.Errorf("branches[%d]: %w", i, err)
		}
		pb.Branch(smb)
	}
	if raw, ok := oo.Raw["Retry"]; ok {
		retriers, err := decodeRetrierList(raw)
		if err != nil {
			return nil, err
		}
		for _, rb := range retriers {
			pb.Retry(rb)
		}
	}
	if raw, ok := oo.Raw["Catch"]; ok {
		catchers, err := decodeCatcherList(raw)
		if err != nil {
			return nil, err
		}
		for _, cb := range catchers {
			pb.Catch(cb)
		}
	}
	if err := applyTransition(oo, pb.Next, pb.End); err != nil {
		return nil, err
	}
	return pb, nil
}

func decodeMap(oo *orderedObject) (builder.StateBuilder, error) {
	if err := checkAllowedKeys(oo.Keys, mapKeys, "Map state"); err != nil {
		return nil, err
	}
	mpb := builder.NewMap()
	if err := applyCommon(oo, commonSetters{
		Comment:    func(s string) { mpb.Comment(s) },
		InputPath:  func(p optpath.Path) { mpb.InputPath(p) },
		OutputPath: func(p optpath.Path) { mpb.OutputPath(p) },
		ResultPath: func(p optpath.Path) { mpb.ResultPath(p) },
	}); err != nil {
		return nil, err
	}
	ipRaw, ok := oo.Raw["ItemProcessor"]
	if !ok {
		return nil, fmt.Errorf("itemProcessor is required")
	}
	smb, err := decodeSubMachine(ipRaw)
	if err != nil {
		return nil, fmt.Errorf("itemProcessor: %w", err)
	}
	mpb.ItemProcessor(smb)
	if s, ok, err := rawString(oo, "ItemsPath"); err != nil {
		return nil, err
	} else if ok {
		mpb.ItemsPath(s)
	}
	if n, err := rawInt(oo, "MaxConcurrency"); err != nil {
		return nil, err
	} else if n != nil {
		mpb.MaxConcurrency(*n)
	}
	if v, ok, err := rawAny(oo, "ItemSelector"); err != nil {
		return nil, err
	} else if ok {
		mpb.ItemSelector(v)
	}
	if raw, ok := oo.Raw["Retry"]; ok {
		retriers, err := decodeRetrierList(raw)
		if err != nil {
			return nil, err
		}
		for _, rb := range retriers {
			mpb.Retry(rb)
		}
	}
	if raw, ok := oo.Raw["Catch"]; ok {
		catchers, err := decodeCatcherList(raw)
		if err != nil {
			return nil, err
		}
		for _, cb := range catchers {
			mpb.Catch(cb)
		}
	}
	if err := applyTransition(oo, mpb.Next, mpb.End); err != nil {
		return nil, err
	}
	return mpb, nil
}

func deserialize(data []byte) (*statemachine.StateMachine, error) {
	oo, err := decodeOrderedObject(data)
	if err != nil {
		return nil, aslerrors.NewSerializationError("decoding state machine document", err)
	}
	if err := checkAllowedKeys(oo.Keys, topLevelKeys, "state machine"); err != nil {
		return nil, aslerrors.NewSerializationError("decoding state machine document", err)
	}
	mb := builder.NewMachine()
	if c, ok, err := rawString(oo, "Comment"); err != nil {
		return nil, aslerrors.NewSerializationError("comment", err)
	} else if ok {
		mb.Comment(c)
	}
	startAt, ok, err := rawString(oo, "StartAt")
	if err != nil {
		return nil, aslerrors.NewSerializationError("startAt", err)
	}
	if !ok {
		return nil, aslerrors.NewSerializationError("decoding state machine document", fmt.Errorf("startAt is required"))
	}
	mb.StartAt(startAt)
	if n, err := rawInt(oo, "TimeoutSeconds"); err != nil {
		return nil, aslerrors.NewSerializationError("timeoutSeconds", err)
	} else if n != nil {
		mb.TimeoutSeconds(*n)
	}
	statesRaw, ok := oo.Raw["States"]
	if !ok {
		return nil, aslerrors.NewSerializationError("decoding state machine document", fmt.Errorf("states is required"))
	}
	states, err := decodeOrderedStates(statesRaw)
	if err != nil {
		return nil, aslerrors.NewSerializationError("decoding states", err)
	}
	for _, ns := range states {
		mb.State(ns.Name, ns.Builder)
	}
	return mb.Build()
}
