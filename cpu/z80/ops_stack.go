package z80

// registerStack builds PUSH/POP rr (AF instead of SP in slot 3) and the
// EX (SP),HL / EX DE,HL / EXX exchange instructions.
func registerStack() {
	for p := uint8(0); p < 4; p++ {
		pp := p
		push := 0xC5 | pp<<4
		pop := 0xC1 | pp<<4
		baseOps[push] = func(c *CPU) {
			get, _ := c.rp2(pp)
			c.push(get())
			c.cycles += 11
		}
		baseOps[pop] = func(c *CPU) {
			_, set := c.rp2(pp)
			set(c.pop())
			c.cycles += 10
		}
	}

	baseOps[0xE3] = func(c *CPU) { // EX (SP),HL
		v := c.readWord(c.reg.SP)
		c.writeWord(c.reg.SP, c.hl())
		c.setHL(v)
		c.cycles += 19
	}
	baseOps[0xEB] = func(c *CPU) { // EX DE,HL
		hl := c.hl()
		de := uint16(c.reg.D)<<8 | uint16(c.reg.E)
		c.reg.D, c.reg.E = uint8(hl>>8), uint8(hl)
		c.setHL(de)
	}
	baseOps[0x08] = func(c *CPU) { // EX AF,AF'
		c.reg.A, c.reg.A2 = c.reg.A2, c.reg.A
		c.reg.F, c.reg.F2 = c.reg.F2, c.reg.F
	}
	baseOps[0xD9] = func(c *CPU) { // EXX
		c.reg.B, c.reg.B2 = c.reg.B2, c.reg.B
		c.reg.C, c.reg.C2 = c.reg.C2, c.reg.C
		c.reg.D, c.reg.D2 = c.reg.D2, c.reg.D
		c.reg.E, c.reg.E2 = c.reg.E2, c.reg.E
		c.reg.H, c.reg.H2 = c.reg.H2, c.reg.H
		c.reg.L, c.reg.L2 = c.reg.L2, c.reg.L
	}
}
