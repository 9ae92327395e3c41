package z80

// opFunc executes one fully-decoded instruction, including its own
// cycle accounting. Tables are built once at package init time by
// looping over the bit-field structure of the opcode map rather than
// writing out all 256 (or 256*5, across prefixes) cases by hand — the
// same table-driven shape the teacher's m68k interpreter uses for its
// 65536-entry opcode table, scaled down to the Z80's byte-sized opcode
// space repeated across prefixes.
type opFunc func(c *CPU)

var (
	baseOps [256]opFunc
	cbOps   [256]opFunc
	edOps   [256]opFunc
)

func init() {
	registerLD8()
	registerLD16()
	registerALU8()
	registerIncDec8()
	registerIncDec16()
	registerBitOps()
	registerJump()
	registerCall()
	registerStack()
	registerIO()
	registerBlock()
	registerMisc()
	registerPrefixDispatch()
}

// registerPrefixDispatch wires the CB/ED/DD/FD prefix bytes themselves
// into baseOps. CB and ED are simple: fetch the next byte and dispatch
// through the matching 256-entry table. DD/FD additionally set the
// active index-register redirection (regs.go) for the one instruction
// that follows, including the DDCB/FDCB displacement-before-opcode
// quirk where the displacement byte precedes the opcode byte instead of
// following it.
func registerPrefixDispatch() {
	baseOps[0xCB] = func(c *CPU) {
		op := c.fetch()
		if h := cbOps[op]; h != nil {
			h(c)
		}
	}
	baseOps[0xED] = func(c *CPU) {
		op := c.fetch()
		if h := edOps[op]; h != nil {
			h(c)
		}
	}
	baseOps[0xDD] = func(c *CPU) { dispatchIndexed(c, idxIX) }
	baseOps[0xFD] = func(c *CPU) { dispatchIndexed(c, idxIY) }
}

func dispatchIndexed(c *CPU, mode indexMode) {
	c.idx = mode
	defer func() { c.idx = idxNone }()

	op := c.fetch()
	if op == 0xCB {
		// DDCB/FDCB: displacement byte comes before the opcode byte.
		d := int8(c.fetchByte())
		opcode := c.fetchByte()
		addr := uint16(int32(c.hl()) + int32(d))
		execDDCB(c, opcode, addr)
		return
	}
	if h := baseOps[op]; h != nil {
		h(c)
	}
}

// execDDCB runs a CB-space instruction against the precomputed
// displacement address instead of (HL), per the DDCB/FDCB encoding.
func execDDCB(c *CPU, opcode uint8, addr uint16) {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	v := c.bus.Read(addr)
	var result uint8
	switch x {
	case 0:
		result = rotateShiftOp(c, y, v)
		c.bus.Write(addr, result)
	case 1:
		bitTest(c, y, v)
	case 2:
		result = v &^ (1 << y)
		c.bus.Write(addr, result)
	case 3:
		result = v | (1 << y)
		c.bus.Write(addr, result)
	}
	c.cycles += 20
}
