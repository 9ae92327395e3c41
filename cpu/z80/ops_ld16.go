package z80

// registerLD16 builds the 16-bit load group: LD rp,nn; LD HL,(nn) / LD
// (nn),HL (and their IX/IY forms via the index-redirected rp(2)); LD
// SP,HL.
func registerLD16() {
	for p := uint8(0); p < 4; p++ {
		pp := p
		opcode := 0x01 | pp<<4
		baseOps[opcode] = func(c *CPU) {
			nn := c.fetchWord()
			_, set := c.rp(pp)
			set(nn)
			c.cycles += 6
		}
	}

	baseOps[0x2A] = func(c *CPU) { // LD HL,(nn)
		addr := c.fetchWord()
		c.setHL(c.readWord(addr))
		c.cycles += 12
	}
	baseOps[0x22] = func(c *CPU) { // LD (nn),HL
		addr := c.fetchWord()
		c.writeWord(addr, c.hl())
		c.cycles += 12
	}
	baseOps[0xF9] = func(c *CPU) { // LD SP,HL
		c.reg.SP = c.hl()
		c.cycles += 2
	}

	edOps[0x4B] = func(c *CPU) { ldRPIndirect(c, 0, false) } // LD BC,(nn)
	edOps[0x5B] = func(c *CPU) { ldRPIndirect(c, 1, false) } // LD DE,(nn)
	edOps[0x6B] = func(c *CPU) { ldRPIndirect(c, 2, false) } // LD HL,(nn) (long form)
	edOps[0x7B] = func(c *CPU) { ldRPIndirect(c, 3, false) } // LD SP,(nn)
	edOps[0x43] = func(c *CPU) { ldRPIndirect(c, 0, true) }  // LD (nn),BC
	edOps[0x53] = func(c *CPU) { ldRPIndirect(c, 1, true) }  // LD (nn),DE
	edOps[0x63] = func(c *CPU) { ldRPIndirect(c, 2, true) }  // LD (nn),HL (long form)
	edOps[0x73] = func(c *CPU) { ldRPIndirect(c, 3, true) }  // LD (nn),SP
}

func ldRPIndirect(c *CPU, p uint8, store bool) {
	addr := c.fetchWord()
	get, set := c.rp(p)
	if store {
		c.writeWord(addr, get())
	} else {
		set(c.readWord(addr))
	}
	c.cycles += 16
}
