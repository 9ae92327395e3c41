package z80

// indexMode selects which 16-bit index register HL-based operands are
// redirected through, set for the duration of a single instruction by
// the DD/FD prefix dispatch in decode.go.
type indexMode uint8

const (
	idxNone indexMode = iota
	idxIX
	idxIY
)

// hl returns the active 16-bit pair HL/IX/IY substitutes for, per the
// current prefix.
func (c *CPU) hl() uint16 {
	switch c.idx {
	case idxIX:
		return c.reg.IX
	case idxIY:
		return c.reg.IY
	default:
		return uint16(c.reg.H)<<8 | uint16(c.reg.L)
	}
}

func (c *CPU) setHL(v uint16) {
	switch c.idx {
	case idxIX:
		c.reg.IX = v
	case idxIY:
		c.reg.IY = v
	default:
		c.reg.H, c.reg.L = uint8(v>>8), uint8(v)
	}
}

// hlPtr resolves the effective address (HL) / (IX+d) / (IY+d) operands
// use. Under a DD/FD prefix this consumes the displacement byte and 5
// extra T-states, per real hardware.
func (c *CPU) hlPtr() uint16 {
	if c.idx == idxNone {
		return c.hl()
	}
	d := int8(c.fetchByte())
	c.cycles += 5
	return uint16(int32(c.hl()) + int32(d))
}

// r8 returns a get/set pair for the 3-bit register field encoding used
// throughout the base opcode map: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
// Under DD/FD, 4/5/6 redirect through the active index register (6
// still means a memory operand, at IX+d/IY+d instead of HL).
func (c *CPU) r8(r uint8) (get func() uint8, set func(uint8)) {
	switch r {
	case 0:
		return func() uint8 { return c.reg.B }, func(v uint8) { c.reg.B = v }
	case 1:
		return func() uint8 { return c.reg.C }, func(v uint8) { c.reg.C = v }
	case 2:
		return func() uint8 { return c.reg.D }, func(v uint8) { c.reg.D = v }
	case 3:
		return func() uint8 { return c.reg.E }, func(v uint8) { c.reg.E = v }
	case 4:
		if c.idx == idxNone {
			return func() uint8 { return c.reg.H }, func(v uint8) { c.reg.H = v }
		}
		return func() uint8 { return uint8(c.hl() >> 8) }, func(v uint8) { c.setHL(uint16(v)<<8 | c.hl()&0xFF) }
	case 5:
		if c.idx == idxNone {
			return func() uint8 { return c.reg.L }, func(v uint8) { c.reg.L = v }
		}
		return func() uint8 { return uint8(c.hl()) }, func(v uint8) { c.setHL(c.hl()&0xFF00 | uint16(v)) }
	case 6:
		addr := c.hlPtr()
		return func() uint8 { return c.bus.Read(addr) }, func(v uint8) { c.bus.Write(addr, v) }
	default: // 7
		return func() uint8 { return c.reg.A }, func(v uint8) { c.reg.A = v }
	}
}

// rp returns a get/set pair for the 2-bit register-pair field used by
// 16-bit loads/arithmetic: 0=BC 1=DE 2=HL(or IX/IY) 3=SP.
func (c *CPU) rp(p uint8) (get func() uint16, set func(uint16)) {
	switch p {
	case 0:
		return func() uint16 { return uint16(c.reg.B)<<8 | uint16(c.reg.C) },
			func(v uint16) { c.reg.B, c.reg.C = uint8(v>>8), uint8(v) }
	case 1:
		return func() uint16 { return uint16(c.reg.D)<<8 | uint16(c.reg.E) },
			func(v uint16) { c.reg.D, c.reg.E = uint8(v>>8), uint8(v) }
	case 2:
		return c.hl, c.setHL
	default: // 3
		return func() uint16 { return c.reg.SP }, func(v uint16) { c.reg.SP = v }
	}
}

// rp2 is rp with slot 3 = AF instead of SP, used by PUSH/POP.
func (c *CPU) rp2(p uint8) (get func() uint16, set func(uint16)) {
	if p == 3 {
		return func() uint16 { return uint16(c.reg.A)<<8 | uint16(c.reg.F) },
			func(v uint16) { c.reg.A, c.reg.F = uint8(v>>8), uint8(v) }
	}
	return c.rp(p)
}
