package m68k

import "log"

// MC68000 exception vector numbers.
const (
	vecResetSSP           = 0
	vecResetPC            = 1
	vecBusError           = 2
	vecAddressError       = 3
	vecIllegalInstruction = 4
	vecDivideByZero       = 5
	vecCHK                = 6
	vecTRAPV              = 7
	vecPrivilegeViolation = 8
	vecTrace              = 9
	vecLineA              = 10
	vecLineF              = 11
	vecUninitialized      = 15
	vecSpuriousInterrupt  = 24
	vecAutoVector1        = 25
	vecTrap0              = 32 // TRAP #0 through TRAP #15 = vectors 32-47
)

// exception processes an exception: enters supervisor mode, pushes the
// return frame (PC + SR), reads the vector, and jumps to the handler.
func (c *CPU) exception(vector int) {
	// Log error exceptions (vectors 2-11) for diagnostics
	if vector >= vecBusError && vector <= vecLineF {
		log.Printf("[m68k] exception %d at PC=%06x SR=%04x", vector, c.reg.PC, c.reg.SR)
	}

	// Determine the PC to push. For group 1 fault exceptions (illegal
	// instruction, privilege violation, Line-A, Line-F, address error),
	// the 68000 pushes the address of the faulting instruction. For all
	// other exceptions (group 2: TRAP, TRAPV, CHK, divide-by-zero; and
	// interrupts/trace), the 68000 pushes the next instruction address
	// (current PC).
	pushPC := c.reg.PC
	switch vector {
	case vecIllegalInstruction, vecPrivilegeViolation, vecLineA, vecLineF, vecAddressError:
		pushPC = c.prevPC
	}

	c.dispatchVector(uint8(vector), pushPC, vecUninitialized, nil)
	if c.halted {
		return
	}
	c.cycles += 34
}

// dispatchVector performs the stack-frame push and vector-table read
// shared by exception() and processInterrupt(): enters supervisor mode,
// clears trace, pushes the MC68010+ format word (long format with fault
// detail for bus/address error, short format 0 otherwise; the MC68000
// pushes no format word at all), pushes pushPC and the pre-exception SR,
// then reads the handler address from VBR+vector*4, falling back to
// fallback (the uninitialized-vector handler, or the spurious-interrupt
// vector for hardware interrupts) when the primary vector is zero.
// adjustSR, if non-nil, runs after the old SR has been captured for the
// frame but before the frame is pushed, so it can fold in further SR
// changes (processInterrupt's new interrupt mask) without those changes
// leaking into the saved copy.
func (c *CPU) dispatchVector(vector uint8, pushPC uint32, fallback uint8, adjustSR func()) {
	oldSR := c.reg.SR

	// Enter supervisor mode, clear trace
	if c.reg.SR&flagS == 0 {
		c.reg.USP = c.reg.A[7]
		c.reg.A[7] = c.reg.SSP
	}
	c.reg.SR = (c.reg.SR | flagS) & ^flagT
	if adjustSR != nil {
		adjustSR()
	}

	// MC68010+ always frames a return with a format/vector-offset word
	// below PC/SR; bus and address errors use the long format ($8),
	// which also carries fault details for supervisor-side recovery.
	// The MC68000 never pushes a format word at all.
	if c.typ != MC68000 {
		if vector == vecBusError || vector == vecAddressError {
			c.pushBusErrorExtra(c.faultAddr)
			c.pushWord(frameFormat8 | uint16(vector)<<2)
		} else {
			c.pushWord(uint16(vector) << 2)
		}
	}
	c.pushLong(pushPC)
	c.pushWord(oldSR)

	// Read handler address from the vector table, relative to VBR on
	// MC68010+ (VBR is always 0 on a plain MC68000).
	vecAddr := c.vbr + uint32(vector)*4
	addr := c.readBus(Long, vecAddr)
	if addr == 0 {
		addr = c.readBus(Long, c.vbr+uint32(fallback)*4)
		if addr == 0 {
			// Double fault on uninitialized vectors: halt
			c.halted = true
			return
		}
	}
	c.reg.PC = addr
}

// frameFormat8 marks the MC68010+ long bus/address-error stack frame.
const frameFormat8 = 0x8000

// busErrorExtraWords is the word count pushed by pushBusErrorExtra,
// which popBusErrorExtra in ops_branch.go's RTE must match exactly.
const busErrorExtraWords = 22

// pushBusErrorExtra pushes the fault-detail portion of the MC68010+
// long bus/address-error frame, below the format word. The function
// code and access-type fields real hardware latches are not tracked by
// this interpreter and are pushed as zero; the fault address is the
// only real value recorded, and it fills the data buffer slot as well.
func (c *CPU) pushBusErrorExtra(faultPC uint32) {
	for i := 0; i < busErrorExtraWords-6; i++ {
		c.pushWord(0) // internal information
	}
	c.pushLong(faultPC) // data input/output buffer
	c.pushLong(faultPC) // fault address
	c.pushWord(0)       // data output buffer (high)
	c.pushWord(0)       // special status word
}

// addressError raises a 68k Address Error exception for a misaligned
// word/long access at addr, surfacing the condition through the normal
// vector/frame mechanism instead of a silent halt. A second address
// error raised while building the first one's exception frame (e.g. an
// odd stack pointer) is an unrecoverable double fault.
func (c *CPU) addressError(addr uint32) {
	if c.halted {
		return
	}
	if c.inFault {
		c.halted = true
		return
	}
	c.inFault = true
	c.faultAddr = addr
	c.exception(vecAddressError)
	c.inFault = false
}
