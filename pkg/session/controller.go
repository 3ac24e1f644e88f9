package session

import "time"

// controller tracks the submission state machine, the transient status, the
// correlation id of the most recent submission, and the two display-window
// timers. Like store, it is serialized by the owning Session.
type controller struct {
	state       State
	status      Status
	correlation string

	resetTimer  *time.Timer
	statusTimer *time.Timer
}

func newController() *controller {
	return &controller{state: StateIdle, status: statusNone()}
}

// guardActive reports whether a submit attempt must be dropped: at most one
// submission may be validating or in flight per session.
func (c *controller) guardActive() bool {
	return c.state == StateValidating || c.state == StateSubmitting
}

// noteEdit applies the state transitions an ordinary field edit causes:
// failed returns to idle with the error banner dismissed, and an edit during
// the success display window cancels the pending form reset so the new input
// is not wiped.
func (c *controller) noteEdit() {
	switch c.state {
	case StateFailed:
		c.state = StateIdle
		c.status = statusNone()
	case StateSucceeded:
		c.state = StateIdle
		c.stopResetTimer()
	}
}

func (c *controller) stopResetTimer() {
	if c.resetTimer != nil {
		c.resetTimer.Stop()
		c.resetTimer = nil
	}
}

func (c *controller) stopStatusTimer() {
	if c.statusTimer != nil {
		c.statusTimer.Stop()
		c.statusTimer = nil
	}
}

func (c *controller) stopTimers() {
	c.stopResetTimer()
	c.stopStatusTimer()
}
