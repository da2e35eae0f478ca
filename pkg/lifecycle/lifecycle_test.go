package lifecycle_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptstore/pkg/lifecycle"
)

func TestStartupSuccess(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Int32
	for range 3 {
		lc.OnStartup(func() error {
			ran.Add(1)
			return nil
		})
	}

	require.NoError(t, lc.WaitForStartup())
	assert.Equal(t, int32(3), ran.Load())
	assert.True(t, lc.Ready())
}

func TestStartupFailureBlocksReadiness(t *testing.T) {
	lc := lifecycle.New()
	errDown := errors.New("database unreachable")

	lc.OnStartup(func() error { return nil })
	lc.OnStartup(func() error { return errDown })

	err := lc.WaitForStartup()
	assert.ErrorIs(t, err, errDown)
	assert.False(t, lc.Ready())
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	require.NoError(t, lc.WaitForStartup())
	require.NoError(t, lc.Shutdown(time.Second))
	assert.True(t, closed.Load())
	assert.False(t, lc.Ready())
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() {
		<-release
	})

	err := lc.Shutdown(10 * time.Millisecond)
	assert.ErrorIs(t, err, lifecycle.ErrShutdownTimeout)
}
