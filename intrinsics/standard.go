package intrinsics

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"math/rand"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/lyzr/stateflow/aslerrors"
)

// RegisterStandard populates r with every intrinsic function named in
// spec.md §4.4 (States.Format, States.Array*, States.Hash, States.UUID,
// ...), mirroring the shape of the teacher's registerStandardFunctions
// entry point.
func RegisterStandard(r *Registry) {
	r.Register("States.Format", fnFormat)
	r.Register("States.StringToJson", fnStringToJSON)
	r.Register("States.JsonToString", fnJSONToString)
	r.Register("States.Array", fnArray)
	r.Register("States.ArrayPartition", fnArrayPartition)
	r.Register("States.ArrayContains", fnArrayContains)
	r.Register("States.ArrayRange", fnArrayRange)
	r.Register("States.ArrayGetItem", fnArrayGetItem)
	r.Register("States.ArrayLength", fnArrayLength)
	r.Register("States.ArrayUnique", fnArrayUnique)
	r.Register("States.Base64Encode", fnBase64Encode)
	r.Register("States.Base64Decode", fnBase64Decode)
	r.Register("States.Hash", fnHash)
	r.Register("States.MathRandom", fnMathRandom)
	r.Register("States.MathAdd", fnMathAdd)
	r.Register("States.StringSplit", fnStringSplit)
	r.Register("States.UUID", fnUUID)
	r.Register("States.JsonMerge", fnJSONMerge)
	r.Register("States.StringToUpper", fnStringToUpper)
	r.Register("States.StringToLower", fnStringToLower)
	r.Register("States.Now", fnNow)
}

func argErr(name string, idx int, reason string) error {
	return &aslerrors.IntrinsicFunctionArgumentError{Name: name, ArgIndex: idx, Reason: reason}
}

func arity(name string, args []interface{}, n int) error {
	if len(args) != n {
		return argErr(name, len(args), fmt.Sprintf("expected %d argument(s), got %d", n, len(args)))
	}
	return nil
}

func asString(name string, args []interface{}, idx int) (string, error) {
	s, ok := args[idx].(string)
	if !ok {
		return "", argErr(name, idx, "expected a string")
	}
	return s, nil
}

func asArray(name string, args []interface{}, idx int) ([]interface{}, error) {
	a, ok := args[idx].([]interface{})
	if !ok {
		return nil, argErr(name, idx, "expected an array")
	}
	return a, nil
}

func asInt(name string, args []interface{}, idx int) (int64, error) {
	switch n := args[idx].(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	}
	return 0, argErr(name, idx, "expected an integer")
}

func asObject(name string, args []interface{}, idx int) (map[string]interface{}, error) {
	m, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, argErr(name, idx, "expected a JSON object")
	}
	return m, nil
}

func fnFormat(args []interface{}, _, _ interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, argErr("States.Format", 0, "expected at least 1 argument")
	}
	tmpl, err := asString("States.Format", args, 0)
	if err != nil {
		return nil, err
	}
	rest := args[1:]
	var b strings.Builder
	ri := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '{' && i+1 < len(tmpl) && tmpl[i+1] == '}' {
			if ri >= len(rest) {
				return nil, argErr("States.Format", ri+1, "not enough arguments for format placeholders")
			}
			b.WriteString(stringify(rest[ri]))
			ri++
			i++
			continue
		}
		b.WriteByte(tmpl[i])
	}
	return b.String(), nil
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

func fnStringToJSON(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.StringToJson", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("States.StringToJson", args, 0)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, argErr("States.StringToJson", 0, "not valid JSON: "+err.Error())
	}
	return v, nil
}

func fnJSONToString(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.JsonToString", args, 1); err != nil {
		return nil, err
	}
	b, err := json.Marshal(args[0])
	if err != nil {
		return nil, argErr("States.JsonToString", 0, "could not marshal value: "+err.Error())
	}
	return string(b), nil
}

func fnArray(args []interface{}, _, _ interface{}) (interface{}, error) {
	out := make([]interface{}, len(args))
	copy(out, args)
	return out, nil
}

func fnArrayPartition(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayPartition", args, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("States.ArrayPartition", args, 0)
	if err != nil {
		return nil, err
	}
	n, err := asInt("States.ArrayPartition", args, 1)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, argErr("States.ArrayPartition", 1, "chunk size must be positive")
	}
	var out []interface{}
	for i := 0; i < len(arr); i += int(n) {
		end := i + int(n)
		if end > len(arr) {
			end = len(arr)
		}
		chunk := make([]interface{}, end-i)
		copy(chunk, arr[i:end])
		out = append(out, chunk)
	}
	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}

func fnArrayContains(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayContains", args, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("States.ArrayContains", args, 0)
	if err != nil {
		return nil, err
	}
	target := args[1]
	for _, v := range arr {
		if deepEqual(v, target) {
			return true, nil
		}
	}
	return false, nil
}

func fnArrayRange(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayRange", args, 3); err != nil {
		return nil, err
	}
	lo, err := asInt("States.ArrayRange", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := asInt("States.ArrayRange", args, 1)
	if err != nil {
		return nil, err
	}
	step, err := asInt("States.ArrayRange", args, 2)
	if err != nil {
		return nil, err
	}
	if step == 0 {
		return nil, argErr("States.ArrayRange", 2, "step must not be zero")
	}
	var out []interface{}
	if step > 0 {
		for v := lo; v <= hi; v += step {
			out = append(out, v)
		}
	} else {
		for v := lo; v >= hi; v += step {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}

func fnArrayGetItem(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayGetItem", args, 2); err != nil {
		return nil, err
	}
	arr, err := asArray("States.ArrayGetItem", args, 0)
	if err != nil {
		return nil, err
	}
	idx, err := asInt("States.ArrayGetItem", args, 1)
	if err != nil {
		return nil, err
	}
	if idx < 0 || int(idx) >= len(arr) {
		return nil, argErr("States.ArrayGetItem", 1, "index out of range")
	}
	return arr[idx], nil
}

func fnArrayLength(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayLength", args, 1); err != nil {
		return nil, err
	}
	arr, err := asArray("States.ArrayLength", args, 0)
	if err != nil {
		return nil, err
	}
	return int64(len(arr)), nil
}

func fnArrayUnique(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.ArrayUnique", args, 1); err != nil {
		return nil, err
	}
	arr, err := asArray("States.ArrayUnique", args, 0)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	for _, v := range arr {
		dup := false
		for _, seen := range out {
			if deepEqual(v, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}

func fnBase64Encode(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.Base64Encode", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("States.Base64Encode", args, 0)
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func fnBase64Decode(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.Base64Decode", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("States.Base64Decode", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, argErr("States.Base64Decode", 0, "not valid base64: "+err.Error())
	}
	return string(b), nil
}

func fnHash(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.Hash", args, 2); err != nil {
		return nil, err
	}
	s, err := asString("States.Hash", args, 0)
	if err != nil {
		return nil, err
	}
	algo, err := asString("States.Hash", args, 1)
	if err != nil {
		return nil, err
	}
	var h hash.Hash
	switch algo {
	case "MD5":
		h = md5.New()
	case "SHA-1":
		h = sha1.New()
	case "SHA-256":
		h = sha256.New()
	case "SHA-384":
		h = sha512.New384()
	case "SHA-512":
		h = sha512.New()
	default:
		return nil, argErr("States.Hash", 1, "unknown algorithm: "+algo)
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fnMathRandom(args []interface{}, _, _ interface{}) (interface{}, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, argErr("States.MathRandom", len(args), "expected 2 or 3 arguments")
	}
	lo, err := asInt("States.MathRandom", args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := asInt("States.MathRandom", args, 1)
	if err != nil {
		return nil, err
	}
	if hi <= lo {
		return nil, argErr("States.MathRandom", 1, "upper bound must be greater than lower bound")
	}
	src := rand.NewSource(time.Now().UnixNano())
	if len(args) == 3 {
		seed, err := asInt("States.MathRandom", args, 2)
		if err != nil {
			return nil, err
		}
		src = rand.NewSource(seed)
	}
	r := rand.New(src)
	return lo + r.Int63n(hi-lo), nil
}

func fnMathAdd(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.MathAdd", args, 2); err != nil {
		return nil, err
	}
	a, err := asInt("States.MathAdd", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := asInt("States.MathAdd", args, 1)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

func fnStringSplit(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.StringSplit", args, 2); err != nil {
		return nil, err
	}
	s, err := asString("States.StringSplit", args, 0)
	if err != nil {
		return nil, err
	}
	delims, err := asString("States.StringSplit", args, 1)
	if err != nil {
		return nil, err
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
	out := make([]interface{}, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out, nil
}

func fnUUID(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.UUID", args, 0); err != nil {
		return nil, err
	}
	return uuid.NewString(), nil
}

func fnJSONMerge(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.JsonMerge", args, 3); err != nil {
		return nil, err
	}
	a, err := asObject("States.JsonMerge", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := asObject("States.JsonMerge", args, 1)
	if err != nil {
		return nil, err
	}
	deep, ok := args[2].(bool)
	if !ok {
		return nil, argErr("States.JsonMerge", 2, "expected a boolean")
	}

	if !deep {
		out := make(map[string]interface{}, len(a)+len(b))
		for k, v := range a {
			out[k] = v
		}
		for k, v := range b {
			out[k] = v
		}
		return out, nil
	}

	aBytes, _ := json.Marshal(a)
	bBytes, _ := json.Marshal(b)
	merged, err := jsonpatch.MergePatch(aBytes, bBytes)
	if err != nil {
		return nil, argErr("States.JsonMerge", 1, "deep merge failed: "+err.Error())
	}
	var out map[string]interface{}
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, argErr("States.JsonMerge", 1, "deep merge produced invalid JSON: "+err.Error())
	}
	return out, nil
}

func fnStringToUpper(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.StringToUpper", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("States.StringToUpper", args, 0)
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func fnStringToLower(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.StringToLower", args, 1); err != nil {
		return nil, err
	}
	s, err := asString("States.StringToLower", args, 0)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

func fnNow(args []interface{}, _, _ interface{}) (interface{}, error) {
	if err := arity("States.Now", args, 0); err != nil {
		return nil, err
	}
	return time.Now().UTC().Format(time.RFC3339Nano), nil
}

func deepEqual(a, b interface{}) bool {
	ab, _ := json.Marshal(a)
	bb, _ := json.Marshal(b)
	return string(ab) == string(bb)
}
