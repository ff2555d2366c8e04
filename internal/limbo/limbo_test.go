package limbo

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionFires(t *testing.T) {
	r := NewRegistry(nil)
	var ran atomic.Int32

	a, err := r.Start(7, 10*time.Millisecond, func() { ran.Add(1) })
	require.NoError(t, err)

	select {
	case fired := <-a.Done():
		assert.True(t, fired)
	case <-time.After(time.Second):
		t.Fatal("action did not fire")
	}
	assert.EqualValues(t, 1, ran.Load())
	_, ok := r.Pending(7)
	assert.False(t, ok)
}

func TestCancelPreventsAction(t *testing.T) {
	r := NewRegistry(nil)
	var ran atomic.Int32

	a, err := r.Start(7, 50*time.Millisecond, func() { ran.Add(1) })
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, keysAsInts(r))

	assert.True(t, r.Cancel(7))
	assert.False(t, <-a.Done())
	assert.False(t, r.Cancel(7))

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, ran.Load())
}

func TestRestartReplacesAction(t *testing.T) {
	r := NewRegistry(nil)
	var first, second atomic.Int32

	a, err := r.Start(DeleteAllKey, time.Hour, func() { first.Add(1) })
	require.NoError(t, err)
	b, err := r.Start(DeleteAllKey, 10*time.Millisecond, func() { second.Add(1) })
	require.NoError(t, err)

	assert.False(t, <-a.Done())
	assert.True(t, <-b.Done())
	assert.Zero(t, first.Load())
	assert.EqualValues(t, 1, second.Load())
}

func TestShutdownCancelsPending(t *testing.T) {
	r := NewRegistry(nil)
	var ran atomic.Int32
	a, err := r.Start(1, time.Hour, func() { ran.Add(1) })
	require.NoError(t, err)

	require.NoError(t, r.Shutdown(time.Second))
	assert.False(t, <-a.Done())
	assert.Empty(t, r.Keys())

	_, err = r.Start(2, time.Millisecond, func() {})
	assert.Error(t, err)
}

func keysAsInts(r *Registry) []int64 {
	var out []int64
	for _, k := range r.Keys() {
		out = append(out, int64(k))
	}
	return out
}
