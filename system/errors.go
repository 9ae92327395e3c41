package system

import "fmt"

// ErrorKind identifies which of the taxonomy in spec section 7 a given
// Error belongs to, so callers can switch on it without string matching.
type ErrorKind int

const (
	// KindAssertion is an internal invariant failure. Fatal.
	KindAssertion ErrorKind = iota
	// KindBreakpoint is a debugger trap, recovered by the debugger layer.
	KindBreakpoint
	// KindBusError is a memory access that could not be completed.
	KindBusError
	// KindAddressError is a 68k misaligned word/long access.
	KindAddressError
	// KindProcessor carries a CPU-side exception vector to take.
	KindProcessor
	// KindOther is everything else.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindAssertion:
		return "assertion"
	case KindBreakpoint:
		return "breakpoint"
	case KindBusError:
		return "bus error"
	case KindAddressError:
		return "address error"
	case KindProcessor:
		return "processor exception"
	default:
		return "other"
	}
}

// Error is the taxonomy shared by the bus, the scheduler, and both CPU
// cores. A Processor error carries the exception vector number to take;
// all other kinds carry a message.
type Error struct {
	Kind    ErrorKind
	Message string
	Vector  uint32 // valid when Kind == KindProcessor
}

func (e *Error) Error() string {
	if e.Kind == KindProcessor {
		return fmt.Sprintf("processor exception vector %d", e.Vector)
	}
	return e.Message
}

// NewAssertionError reports a fatal internal invariant failure.
func NewAssertionError(format string, args ...any) *Error {
	return &Error{Kind: KindAssertion, Message: fmt.Sprintf(format, args...)}
}

// NewBreakpointError reports a debugger trap.
func NewBreakpointError(format string, args ...any) *Error {
	return &Error{Kind: KindBreakpoint, Message: fmt.Sprintf(format, args...)}
}

// NewBusError reports a memory access that could not be completed.
func NewBusError(format string, args ...any) *Error {
	return &Error{Kind: KindBusError, Message: fmt.Sprintf(format, args...)}
}

// NewAddressError reports a 68k misaligned word/long access.
func NewAddressError(format string, args ...any) *Error {
	return &Error{Kind: KindAddressError, Message: fmt.Sprintf(format, args...)}
}

// NewProcessorError reports a CPU-side exception vector to take.
func NewProcessorError(vector uint32) *Error {
	return &Error{Kind: KindProcessor, Vector: vector}
}

// NewOtherError reports a miscellaneous textual error.
func NewOtherError(format string, args ...any) *Error {
	return &Error{Kind: KindOther, Message: fmt.Sprintf(format, args...)}
}

// IsBreakpoint reports whether err is a breakpoint trap, the one error
// kind the debugger consumes instead of propagating.
func IsBreakpoint(err error) bool {
	var e *Error
	if as(err, &e) {
		return e.Kind == KindBreakpoint
	}
	return false
}

// as is a tiny local errors.As to avoid importing "errors" just for this.
func as(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
