package workerchannel

import (
	"testing"
	"time"
)

// Scenario F (closing half): skipping the liveness window without any
// ping/pong evidence force-closes the connection.
func TestConnectionLivenessTimerFiresWithoutReset(t *testing.T) {
	original := ConnectionTimeout
	ConnectionTimeout = 20 * time.Millisecond
	defer func() { ConnectionTimeout = original }()

	c := newTestConnection("x")
	fired := make(chan struct{})
	c.resetLiveness(func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("liveness timer did not fire")
	}
}

// Scenario F (persisting half): a ping observed before the window
// elapses resets the clock, so the connection is not closed.
func TestConnectionLivenessTimerResetPreventsExpiry(t *testing.T) {
	original := ConnectionTimeout
	ConnectionTimeout = 50 * time.Millisecond
	defer func() { ConnectionTimeout = original }()

	c := newTestConnection("x")
	fired := make(chan struct{}, 1)
	notify := func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}

	c.resetLiveness(notify)
	time.Sleep(20 * time.Millisecond)
	c.resetLiveness(notify) // simulates a ping arriving and resetting the timer

	select {
	case <-fired:
		t.Fatal("liveness timer fired despite being reset before expiry")
	case <-time.After(40 * time.Millisecond):
	}
}
