package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDismissDelay, New(0).Delay())
	assert.Equal(t, 5*time.Second, DefaultDismissDelay)
	assert.Equal(t, time.Second, New(time.Second).Delay())
}

func TestShow_ThenAutoHide(t *testing.T) {
	n := New(30 * time.Millisecond)
	t.Cleanup(n.Close)

	n.Show("Saved")
	assert.Equal(t, State{Message: "Saved", Visible: true, Level: LevelInfo}, n.Snapshot())

	require.Eventually(t, func() bool { return !n.Snapshot().Visible }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Saved", n.Snapshot().Message)
}

func TestShow_ReplacesAndReschedules(t *testing.T) {
	n := New(150 * time.Millisecond)
	t.Cleanup(n.Close)

	n.Show("Saved")
	time.Sleep(90 * time.Millisecond)
	n.ShowError("Error")

	// Past the first message's deadline, before the second's.
	time.Sleep(100 * time.Millisecond)
	got := n.Snapshot()
	assert.True(t, got.Visible, "first timer hid the newer message")
	assert.Equal(t, "Error", got.Message)
	assert.Equal(t, LevelError, got.Level)

	require.Eventually(t, func() bool { return !n.Snapshot().Visible }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Error", n.Snapshot().Message)
}

func TestExpire_StaleGenerationIsIgnored(t *testing.T) {
	n := New(time.Hour)
	t.Cleanup(n.Close)

	n.Show("Saved")
	n.mu.Lock()
	stale := n.gen
	n.mu.Unlock()

	n.Show("Error")
	n.expire(stale)
	assert.Equal(t, State{Message: "Error", Visible: true}, n.Snapshot())

	n.mu.Lock()
	current := n.gen
	n.mu.Unlock()
	n.expire(current)
	assert.False(t, n.Snapshot().Visible)
}

func TestHide_CancelsPendingTimer(t *testing.T) {
	n := New(time.Hour)
	t.Cleanup(n.Close)

	n.Show("Saved")
	n.Hide()

	got := n.Snapshot()
	assert.False(t, got.Visible)
	assert.Equal(t, "Saved", got.Message)
	n.mu.Lock()
	assert.Nil(t, n.timer)
	n.mu.Unlock()
}

func TestSubscribe_SignalsShowAndHide(t *testing.T) {
	n := New(time.Hour)
	t.Cleanup(n.Close)

	ch, cancel := n.Subscribe()
	defer cancel()

	n.Show("hello")
	select {
	case <-ch:
	default:
		t.Fatal("no signal after Show")
	}

	n.Hide()
	select {
	case <-ch:
	default:
		t.Fatal("no signal after Hide")
	}

	n.Hide()
	select {
	case <-ch:
		t.Fatal("signal after Hide of a hidden toast")
	default:
	}
}

func TestClose_IgnoresLaterShows(t *testing.T) {
	n := New(time.Hour)
	n.Close()
	n.Show("late")
	assert.Equal(t, State{}, n.Snapshot())
}
