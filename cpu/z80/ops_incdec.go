package z80

// registerIncDec8 builds INC r / DEC r (opcode 0x04/0x05 + r<<3).
func registerIncDec8() {
	for r := uint8(0); r < 8; r++ {
		rr := r
		incOp := 0x04 | rr<<3
		decOp := 0x05 | rr<<3
		baseOps[incOp] = func(c *CPU) {
			get, set := c.r8(rr)
			before := get()
			after := before + 1
			set(after)
			c.reg.F = incFlags(before, after, c.reg.F&flagC)
			if rr == 6 {
				c.cycles += 7
			}
		}
		baseOps[decOp] = func(c *CPU) {
			get, set := c.r8(rr)
			before := get()
			after := before - 1
			set(after)
			c.reg.F = decFlags(before, after, c.reg.F&flagC)
			if rr == 6 {
				c.cycles += 7
			}
		}
	}
}

// registerIncDec16 builds INC rp / DEC rp (opcode 0x03/0x0B + p<<4),
// which don't affect any flags.
func registerIncDec16() {
	for p := uint8(0); p < 4; p++ {
		pp := p
		incOp := 0x03 | pp<<4
		decOp := 0x0B | pp<<4
		baseOps[incOp] = func(c *CPU) {
			get, set := c.rp(pp)
			set(get() + 1)
			c.cycles += 2
		}
		baseOps[decOp] = func(c *CPU) {
			get, set := c.rp(pp)
			set(get() - 1)
			c.cycles += 2
		}
	}
}
