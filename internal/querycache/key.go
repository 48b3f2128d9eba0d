package querycache

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Key derives the cache key for an operation and its arguments, e.g.
// `getOrders({"customer":"c1"})`.
//
// Arguments are normalized through their JSON form: object keys are sorted,
// null/omitted fields are dropped and a nil argument is the same as an empty
// object, so field order and absent fields never produce distinct keys.
func Key(operation string, args any) (string, error) {
	if operation == "" {
		return "", &KeyNormalizationError{Err: errors.New("operation name is required")}
	}
	norm, err := normalizeArgs(args)
	if err != nil {
		return "", &KeyNormalizationError{Operation: operation, Err: err}
	}
	return operation + "(" + norm + ")", nil
}

func normalizeArgs(args any) (string, error) {
	if args == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	v = dropNulls(v)
	if v == nil {
		return "{}", nil
	}

	// encoding/json writes map keys in sorted order.
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = dropNulls(child)
		}
		return t
	default:
		return v
	}
}
