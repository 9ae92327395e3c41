package system

import (
	"container/heap"

	"github.com/user-none/go-retrocore/clock"
)

// schedEntry is one device's next scheduling point.
type schedEntry struct {
	due   clock.Instant
	id    DeviceId
	index int
}

// schedQueue is a min-heap on due time, breaking ties by DeviceId so
// ordering is deterministic across runs.
type schedQueue []*schedEntry

func (q schedQueue) Len() int { return len(q) }
func (q schedQueue) Less(i, j int) bool {
	if q[i].due.Compare(q[j].due) != 0 {
		return q[i].due.Before(q[j].due)
	}
	return q[i].id < q[j].id
}
func (q schedQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *schedQueue) Push(x any) {
	e := x.(*schedEntry)
	e.index = len(*q)
	*q = append(*q, e)
}
func (q *schedQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// System owns the shared Bus, the InterruptController, the device
// registry, and the discrete-event scheduler that drives every
// Steppable device forward in lowest-due-time-first order: the device
// with the earliest next_due Instant always runs next, which is what
// lets a slow device (e.g. a 68k at a few MHz) and a fast one (e.g. a
// sound chip's internal oscillator) interleave correctly without either
// one running ahead of virtual time.
type System struct {
	Bus         *Bus
	Interrupts  *InterruptController
	devices     []Device
	byId        map[DeviceId]Device
	steppable   map[DeviceId]Steppable
	queue       schedQueue
	entryById   map[DeviceId]*schedEntry
	now         clock.Instant
	debugBreak  bool
	breakDevice DeviceId
}

// New returns an empty System with its own Bus and InterruptController.
func New() *System {
	return &System{
		Bus:        NewBus(),
		Interrupts: NewInterruptController(),
		byId:       make(map[DeviceId]Device),
		steppable:  make(map[DeviceId]Steppable),
		entryById:  make(map[DeviceId]*schedEntry),
		now:        clock.START,
	}
}

// Now returns the System's current virtual time.
func (s *System) Now() clock.Instant { return s.now }

// AddDevice registers dev. If it implements Addressable, the caller
// should also Insert it into s.Bus; AddDevice only handles the
// scheduler/registry side. If dev implements Steppable, it is enrolled
// in the scheduler with an initial due time of now.
func (s *System) AddDevice(dev Device) {
	s.devices = append(s.devices, dev)
	s.byId[dev.Id] = dev
	if st, ok := dev.AsSteppable(); ok {
		s.steppable[dev.Id] = st
		e := &schedEntry{due: s.now, id: dev.Id}
		s.entryById[dev.Id] = e
		heap.Push(&s.queue, e)
	}
}

// AddAddressableDevice registers dev and maps it into the bus at
// [base, base+size), mirroring the convenience System::add_*_device
// helpers of the original implementation.
func (s *System) AddAddressableDevice(name string, base, size uint32, dev Addressable) Device {
	d := NewDevice(name, dev)
	s.Bus.Insert(name, base, size, dev)
	s.AddDevice(d)
	return d
}

// Device looks up a registered device by id.
func (s *System) Device(id DeviceId) (Device, bool) {
	d, ok := s.byId[id]
	return d, ok
}

// Devices returns every registered device in registration order.
func (s *System) Devices() []Device {
	return s.devices
}

// RequestBreak makes the next StepUntilDebuggable call return after the
// next device step, whether or not that device is Debuggable.
func (s *System) RequestBreak() {
	s.debugBreak = true
}

// stepOne pops the earliest-due device, steps it, and reschedules it at
// now+elapsed. Returns the id that stepped and any step error.
func (s *System) stepOne() (DeviceId, error) {
	if s.queue.Len() == 0 {
		return 0, nil
	}
	e := s.queue[0]
	id := e.id
	st := s.steppable[id]

	due := e.due
	if due.After(s.now) {
		s.now = due
	}

	elapsed, err := st.Step(s.now)
	if err != nil {
		return id, err
	}
	if elapsed == 0 {
		elapsed = 1
	}
	next, ok := s.now.CheckedAdd(elapsed)
	if !ok {
		next = clock.FOREVER
	}
	e.due = next
	heap.Fix(&s.queue, e.index)
	return id, nil
}

// StepUntil runs the scheduler while the earliest-due device's next
// scheduling point is at or before deadline, or until a device Step
// returns an error. Devices past deadline are left un-stepped for the
// next call.
func (s *System) StepUntil(deadline clock.Instant) error {
	for s.queue.Len() > 0 {
		if s.queue[0].due.After(deadline) {
			break
		}
		if _, err := s.stepOne(); err != nil {
			return err
		}
	}
	if s.now.Before(deadline) {
		s.now = deadline
	}
	return nil
}

// RunForDuration advances the System by d of virtual time from its
// current Now().
func (s *System) RunForDuration(d clock.Duration) error {
	deadline, ok := s.now.CheckedAdd(d)
	if !ok {
		deadline = clock.FOREVER
	}
	return s.StepUntil(deadline)
}

// StepUntilDebuggable steps devices in due order until one that
// implements Debuggable has completed a step, and returns its id. It
// returns early with the error when a device Step fails (a
// BreakpointError included), or after the next step of any device once
// RequestBreak was called.
func (s *System) StepUntilDebuggable() (DeviceId, error) {
	for s.queue.Len() > 0 {
		id, err := s.stepOne()
		if err != nil {
			if IsBreakpoint(err) {
				return id, err
			}
			return id, err
		}
		if s.debugBreak {
			s.debugBreak = false
			return id, nil
		}
		if _, ok := s.byId[id].AsDebuggable(); ok {
			return id, nil
		}
	}
	return 0, nil
}
