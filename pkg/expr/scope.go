// Package expr evaluates template directive expressions (v-if,
// :attr bindings and {{ }} interpolation) in a sandboxed JavaScript
// runtime. Each Scope owns one runtime seeded with the render data.
package expr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// ErrTimeout is returned when an expression runs longer than the
// scope's timeout.
var ErrTimeout = errors.New("expression timed out")

// DefaultTimeout bounds a single expression evaluation.
const DefaultTimeout = 100 * time.Millisecond

// Scope evaluates expressions against a fixed data map.
type Scope struct {
	vm      *goja.Runtime
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Scope.
type Option func(*Scope)

// WithTimeout sets the per-expression timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Scope) { s.timeout = d }
}

// WithLogger routes console.log and friends to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scope) { s.logger = l }
}

// New creates a scope whose globals are the entries of data.
func New(data map[string]any, opts ...Option) (*Scope, error) {
	s := &Scope{vm: goja.New(), timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	s.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	c := &consoleAPI{logger: s.logger}
	c.register(s.vm)
	for k, v := range data {
		if err := s.vm.Set(k, v); err != nil {
			return nil, fmt.Errorf("bind %q: %w", k, err)
		}
	}
	return s, nil
}

// Eval evaluates src and exports the result to a Go value. A reference
// to an unknown identifier evaluates to nil.
func (s *Scope) Eval(src string) (any, error) {
	v, err := s.run(src)
	if err != nil || v == nil {
		return nil, err
	}
	return v.Export(), nil
}

// Truthy evaluates src with JavaScript truthiness.
func (s *Scope) Truthy(src string) (bool, error) {
	v, err := s.run(src)
	if err != nil || v == nil {
		return false, err
	}
	return v.ToBoolean(), nil
}

// String evaluates src to its string form. null and undefined give "".
func (s *Scope) String(src string) (string, error) {
	v, err := s.run(src)
	if err != nil || v == nil {
		return "", err
	}
	return v.String(), nil
}

var mustache = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Interpolate replaces every {{ expr }} in text with the string form of
// its value.
func (s *Scope) Interpolate(text string) (string, error) {
	var firstErr error
	out := mustache.ReplaceAllStringFunc(text, func(m string) string {
		if firstErr != nil {
			return m
		}
		v, err := s.String(strings.TrimSpace(m[2 : len(m)-2]))
		if err != nil {
			firstErr = err
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// run evaluates src. It returns a nil value for null, undefined and
// unknown identifiers.
func (s *Scope) run(src string) (goja.Value, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	if s.timeout > 0 {
		timer := time.AfterFunc(s.timeout, func() { s.vm.Interrupt(ErrTimeout) })
		defer func() {
			timer.Stop()
			s.vm.ClearInterrupt()
		}()
	}
	v, err := s.vm.RunString(src)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%w: %q", ErrTimeout, src)
		}
		if s.isReferenceError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("evaluate %q: %w", src, err)
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v, nil
}

func (s *Scope) isReferenceError(err error) bool {
	var exc *goja.Exception
	if !errors.As(err, &exc) {
		return false
	}
	obj, ok := exc.Value().(*goja.Object)
	if !ok {
		return false
	}
	name := obj.Get("name")
	return name != nil && name.String() == "ReferenceError"
}
