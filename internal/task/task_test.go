package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTask struct {
	name    string
	enabled bool
}

func (s stubTask) Name() string                { return s.name }
func (s stubTask) Schedule() string            { return "@every 1m" }
func (s stubTask) Run(_ context.Context) error { return nil }
func (s stubTask) Timeout() time.Duration      { return 0 }
func (s stubTask) Enabled() bool               { return s.enabled }

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(stubTask{name: "b", enabled: true}))
	require.NoError(t, r.Register(stubTask{name: "a", enabled: false}))
	require.NoError(t, r.Register(stubTask{name: "c", enabled: true}))

	assert.ErrorIs(t, r.Register(stubTask{name: "b"}), ErrTaskAlreadyRegistered)
	assert.ErrorIs(t, r.Register(stubTask{}), ErrEmptyTaskName)
	assert.ErrorIs(t, r.Register(nil), ErrNilTask)

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubTask{name: "watch", enabled: true}))

	got, err := r.Get("watch")
	require.NoError(t, err)
	assert.Equal(t, "watch", got.Name())

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRegistry_Enabled(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubTask{name: "z", enabled: true}))
	require.NoError(t, r.Register(stubTask{name: "off", enabled: false}))
	require.NoError(t, r.Register(stubTask{name: "m", enabled: true}))

	enabled := r.Enabled()
	require.Len(t, enabled, 2)
	assert.Equal(t, "m", enabled[0].Name())
	assert.Equal(t, "z", enabled[1].Name())
}

func TestResult_Success(t *testing.T) {
	assert.True(t, Result{TaskName: "x"}.Success())
	assert.False(t, Result{TaskName: "x", Error: "boom"}.Success())
}
