// Package tagscript evaluates small JavaScript functions that derive cache
// tags from a query's response data.
//
// A script is a single function expression taking the fetch result and the
// query arguments and returning an array of strings:
//
//	(result, args) => result.map(o => "Order:" + o.id)
package tagscript

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 50 * time.Millisecond

// ErrNotFunction is returned by Compile when the source does not evaluate to
// a function.
var ErrNotFunction = errors.New("tag script must evaluate to a function")

// Script is a compiled tag function. It is safe for concurrent use; each
// evaluation runs in its own runtime.
type Script struct {
	name    string
	prog    *goja.Program
	timeout time.Duration
}

// Compile parses src and checks that it evaluates to a function.
func Compile(name, src string) (*Script, error) {
	prog, err := goja.Compile(name, "("+src+"\n)", true)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	s := &Script{name: name, prog: prog, timeout: DefaultTimeout}
	if _, _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithTimeout returns a copy of s that interrupts evaluations after d.
func (s *Script) WithTimeout(d time.Duration) *Script {
	cp := *s
	if d > 0 {
		cp.timeout = d
	}
	return &cp
}

func (s *Script) load() (*goja.Runtime, goja.Callable, error) {
	vm := goja.New()
	v, err := vm.RunProgram(s.prog)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", s.name, err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, nil, fmt.Errorf("load %s: %w", s.name, ErrNotFunction)
	}
	return vm, fn, nil
}

// Tags calls the script with result and args. Values are passed through their
// JSON form so scripts see the same field names the API sends. A null or
// undefined return yields no tags.
func (s *Script) Tags(result, args any) ([]string, error) {
	vm, fn, err := s.load()
	if err != nil {
		return nil, err
	}
	jsResult, err := toPlain(result)
	if err != nil {
		return nil, fmt.Errorf("%s: result: %w", s.name, err)
	}
	jsArgs, err := toPlain(args)
	if err != nil {
		return nil, fmt.Errorf("%s: args: %w", s.name, err)
	}

	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt("timeout")
	})
	defer timer.Stop()

	out, err := fn(goja.Undefined(), vm.ToValue(jsResult), vm.ToValue(jsArgs))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", s.name, err)
	}
	if goja.IsUndefined(out) || goja.IsNull(out) {
		return nil, nil
	}

	list, ok := out.Export().([]any)
	if !ok {
		return nil, fmt.Errorf("%s: returned %s, want array of strings", s.name, out.ExportType())
	}
	tags := make([]string, 0, len(list))
	for i, v := range list {
		tag, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s: element %d is %T, want string", s.name, i, v)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Func adapts s to a tag function for the query cache. Evaluation errors are
// logged and the fallback tags are used instead.
func (s *Script) Func(fallback []string, logger *slog.Logger) func(result, args any) []string {
	if logger == nil {
		logger = slog.Default()
	}
	return func(result, args any) []string {
		tags, err := s.Tags(result, args)
		if err != nil {
			logger.Warn("tag script failed, using static tags",
				"script", s.name, "error", err)
			return fallback
		}
		return tags
	}
}

func toPlain(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
