package formstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineHappyPath(t *testing.T) {
	var m Machine
	assert.Equal(t, Idle, m.State())

	require.NoError(t, m.Begin())
	assert.Equal(t, Submitting, m.State())

	require.NoError(t, m.Succeed())
	assert.Equal(t, Submitted, m.State())
	assert.True(t, m.ResetRequested())

	m.Reset()
	assert.Equal(t, Idle, m.State())
	assert.False(t, m.ResetRequested())
}

func TestMachineFailureReturnsToIdle(t *testing.T) {
	var m Machine
	require.NoError(t, m.Begin())
	require.NoError(t, m.Fail())
	assert.Equal(t, Idle, m.State())
	assert.False(t, m.ResetRequested())
}

func TestMachineRejectsDoubleSubmit(t *testing.T) {
	var m Machine
	require.NoError(t, m.Begin())
	assert.ErrorIs(t, m.Begin(), ErrBusy)
	assert.Equal(t, Submitting, m.State())
}

func TestMachineInvalidTransitions(t *testing.T) {
	var m Machine
	assert.ErrorIs(t, m.Succeed(), ErrNotSubmitting)
	assert.ErrorIs(t, m.Fail(), ErrNotSubmitting)

	m.Reset()
	assert.Equal(t, Idle, m.State())
}

func TestSubmittedCanBeginAgain(t *testing.T) {
	var m Machine
	require.NoError(t, m.Begin())
	require.NoError(t, m.Succeed())
	require.NoError(t, m.Begin())
	assert.False(t, m.ResetRequested())
}

func TestConcurrentBeginOnlyOneWins(t *testing.T) {
	var (
		m    Machine
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Begin() == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(0)

	a := r.For("kiosk-a")
	assert.Same(t, a, r.For("kiosk-a"))
	assert.NotSame(t, a, r.For("kiosk-b"))
	assert.Same(t, r.For(""), r.For("default"))
	assert.Equal(t, 3, r.Len())
}

func TestRegistryExpiry(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	a := r.For("kiosk-a")
	require.NoError(t, a.Begin())

	time.Sleep(50 * time.Millisecond)
	b := r.For("kiosk-a")
	assert.NotSame(t, a, b)
	assert.Equal(t, Idle, b.State())
}
