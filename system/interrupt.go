package system

// InterruptController tracks pending interrupt requests by priority and
// hands out the vector for the highest one when the CPU acknowledges.
// The 68k family uses priorities 1..7 (7 is non-maskable); Z80 uses a
// single maskable line plus NMI, modeled here as priority 1 and the
// reserved priority 7 respectively so both cores share one type.
type InterruptController struct {
	pending [8]bool
	vector  [8]uint8
}

// NewInterruptController returns a controller with nothing pending.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Raise marks priority as pending with the given vector. A later Raise
// at the same priority overwrites the vector — real hardware has no
// notion of a priority-level queue, only level-or-not.
func (ic *InterruptController) Raise(priority uint8, vector uint8) {
	if priority == 0 || priority > 7 {
		return
	}
	ic.pending[priority] = true
	ic.vector[priority] = vector
}

// Clear cancels a pending request at priority, for level-triggered
// sources that deassert before being acknowledged.
func (ic *InterruptController) Clear(priority uint8) {
	if priority == 0 || priority > 7 {
		return
	}
	ic.pending[priority] = false
}

// Highest returns the highest pending priority and whether anything is
// pending at all.
func (ic *InterruptController) Highest() (priority uint8, ok bool) {
	for p := uint8(7); p >= 1; p-- {
		if ic.pending[p] {
			return p, true
		}
	}
	return 0, false
}

// Acknowledge clears and returns the vector for the highest pending
// request above mask; priority 7 is acknowledged whatever the mask. If
// mask excludes everything pending, ok is false and nothing is cleared.
func (ic *InterruptController) Acknowledge(mask uint8) (vector uint8, priority uint8, ok bool) {
	p, any := ic.Highest()
	if !any || p <= mask && p != 7 {
		return 0, 0, false
	}
	v := ic.vector[p]
	ic.pending[p] = false
	return v, p, true
}
