package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelayDoublesPerAttempt(t *testing.T) {
	assert.Equal(t, 5*time.Second, backoffDelay(0))
	assert.Equal(t, 10*time.Second, backoffDelay(1))
	assert.Equal(t, 20*time.Second, backoffDelay(2))
	assert.Equal(t, 40*time.Second, backoffDelay(3))
}

func TestBackoffDelayCapsAtMaxExponent(t *testing.T) {
	capped := backoffDelay(backoffMaxExponent)
	assert.Equal(t, capped, backoffDelay(backoffMaxExponent+5))
}

// Scenario F (worker half): a ping that never gets a pong within
// PongTimeout closes the connection.
func TestPongWatchdogFiresWithoutDisarm(t *testing.T) {
	original := PongTimeout
	PongTimeout = 20 * time.Millisecond
	defer func() { PongTimeout = original }()

	fired := make(chan struct{})
	arm, _ := newPongWatchdog(func() { close(fired) })
	arm()

	select {
	case <-fired:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("pong watchdog did not fire")
	}
}

// A pong observed before PongTimeout elapses disarms the watchdog, so
// the connection survives.
func TestPongWatchdogDisarmPreventsExpiry(t *testing.T) {
	original := PongTimeout
	PongTimeout = 30 * time.Millisecond
	defer func() { PongTimeout = original }()

	fired := make(chan struct{}, 1)
	arm, disarm := newPongWatchdog(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	arm()
	time.Sleep(10 * time.Millisecond)
	disarm() // simulates a pong frame arriving before the deadline

	select {
	case <-fired:
		t.Fatal("pong watchdog fired despite being disarmed before expiry")
	case <-time.After(50 * time.Millisecond):
	}
}

// Re-arming (the next ping going out) restarts the clock, same as the
// server-side liveness timer resetting on each ping it observes.
func TestPongWatchdogRearmResetsDeadline(t *testing.T) {
	original := PongTimeout
	PongTimeout = 30 * time.Millisecond
	defer func() { PongTimeout = original }()

	fired := make(chan struct{}, 1)
	arm, disarm := newPongWatchdog(func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	arm()
	time.Sleep(10 * time.Millisecond)
	disarm()
	arm()

	select {
	case <-fired:
		t.Fatal("pong watchdog fired before the re-armed deadline elapsed")
	case <-time.After(15 * time.Millisecond):
	}

	select {
	case <-fired:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("pong watchdog did not fire after the re-armed deadline elapsed")
	}
}
