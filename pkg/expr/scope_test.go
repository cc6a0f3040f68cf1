package expr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newScope(t *testing.T, data map[string]any, opts ...Option) *Scope {
	t.Helper()
	s, err := New(data, opts...)
	require.NoError(t, err)
	return s
}

func TestTruthy(t *testing.T) {
	s := newScope(t, map[string]any{"zero": 0, "name": "x", "empty": "", "list": []any{}, "flag": true})
	tests := map[string]bool{
		"zero":            false,
		"name":            true,
		"empty":           false,
		"list":            true,
		"flag":            true,
		"!flag":           false,
		"missing":         false,
		"name === 'x'":    true,
		"zero + 1 > 0":    true,
		"flag && missing": false,
	}
	for src, want := range tests {
		got, err := s.Truthy(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestEval_UnknownIsNil(t *testing.T) {
	s := newScope(t, nil)
	v, err := s.Eval("nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEval_GoValues(t *testing.T) {
	type user struct {
		Name string `json:"name"`
	}
	s := newScope(t, map[string]any{"user": user{Name: "alice"}, "n": 3})
	v, err := s.String("user.name")
	require.NoError(t, err)
	assert.Equal(t, "alice", v)

	got, err := s.Eval("n * 2")
	require.NoError(t, err)
	assert.EqualValues(t, 6, got)
}

func TestInterpolate(t *testing.T) {
	s := newScope(t, map[string]any{"name": "Bob", "n": 2})
	out, err := s.Interpolate("Hi {{ name }}, {{n+1}} new{{ missing }}!")
	require.NoError(t, err)
	assert.Equal(t, "Hi Bob, 3 new!", out)
}

func TestEval_SyntaxError(t *testing.T) {
	s := newScope(t, nil)
	_, err := s.Eval("1 +")
	assert.Error(t, err)
}

func TestEval_Timeout(t *testing.T) {
	s := newScope(t, nil, WithTimeout(20*time.Millisecond))
	_, err := s.Eval("while (true) {}")
	assert.ErrorIs(t, err, ErrTimeout)

	v, err := s.Eval("1 + 1")
	require.NoError(t, err, "runtime is usable after an interrupt")
	assert.EqualValues(t, 2, v)
}

func TestConsole_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newScope(t, nil, WithLogger(zap.New(core)))
	_, err := s.Eval(`console.log("hello", 1)`)
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello 1", logs.All()[0].Message)
}
