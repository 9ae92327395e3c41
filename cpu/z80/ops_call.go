package z80

// registerCall builds CALL nn, CALL cc,nn, RET, RET cc, RST n, and the
// ED-prefixed RETI/RETN return-from-interrupt forms.
func registerCall() {
	baseOps[0xCD] = func(c *CPU) { // CALL nn
		nn := c.fetchWord()
		c.push(c.reg.PC)
		c.reg.PC = nn
		c.cycles += 13
	}
	for cc := uint8(0); cc < 8; cc++ {
		ccv := cc
		opcode := 0xC4 | ccv<<3
		baseOps[opcode] = func(c *CPU) {
			nn := c.fetchWord()
			if c.condition(ccv) {
				c.push(c.reg.PC)
				c.reg.PC = nn
				c.cycles += 7
			}
			c.cycles += 10
		}
	}

	baseOps[0xC9] = func(c *CPU) { // RET
		c.reg.PC = c.pop()
		c.cycles += 6
	}
	for cc := uint8(0); cc < 8; cc++ {
		ccv := cc
		opcode := 0xC0 | ccv<<3
		baseOps[opcode] = func(c *CPU) {
			if c.condition(ccv) {
				c.reg.PC = c.pop()
				c.cycles += 6
			}
			c.cycles += 5
		}
	}

	for n := uint8(0); n < 8; n++ {
		target := uint16(n) * 8
		opcode := 0xC7 | n<<3
		baseOps[opcode] = func(c *CPU) { // RST n
			c.push(c.reg.PC)
			c.reg.PC = target
			c.cycles += 7
		}
	}

	edOps[0x4D] = func(c *CPU) { // RETI
		c.reg.PC = c.pop()
		c.cycles += 10
	}
	edOps[0x45] = func(c *CPU) { // RETN
		c.reg.IFF1 = c.reg.IFF2
		c.reg.PC = c.pop()
		c.cycles += 10
	}
}
