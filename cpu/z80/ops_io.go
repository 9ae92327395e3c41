package z80

// registerIO builds IN A,(n) / OUT (n),A and the ED-prefixed IN r,(C) /
// OUT (C),r register forms.
func registerIO() {
	baseOps[0xDB] = func(c *CPU) { // IN A,(n)
		n := c.fetchByte()
		port := uint16(c.reg.A)<<8 | uint16(n)
		c.reg.A = c.io.In(port)
		c.cycles += 7
	}
	baseOps[0xD3] = func(c *CPU) { // OUT (n),A
		n := c.fetchByte()
		port := uint16(c.reg.A)<<8 | uint16(n)
		c.io.Out(port, c.reg.A)
		c.cycles += 7
	}

	for r := uint8(0); r < 8; r++ {
		rr := r
		inOp := 0x40 | rr<<3
		outOp := 0x41 | rr<<3
		edOps[inOp] = func(c *CPU) {
			port := uint16(c.reg.B)<<8 | uint16(c.reg.C)
			v := c.io.In(port)
			if rr != 6 { // IN (HL),(C) (opcode 0x70) only sets flags
				_, set := c.r8(rr)
				set(v)
			}
			c.reg.F = logicFlags(v, false) | c.reg.F&flagC
			c.cycles += 8
		}
		edOps[outOp] = func(c *CPU) {
			port := uint16(c.reg.B)<<8 | uint16(c.reg.C)
			var v uint8
			if rr != 6 {
				get, _ := c.r8(rr)
				v = get()
			}
			c.io.Out(port, v)
			c.cycles += 8
		}
	}
}
