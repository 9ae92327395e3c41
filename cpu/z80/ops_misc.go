package z80

// registerMisc builds NOP, DI/EI, the ED-prefixed IM 0/1/2 selectors,
// NEG, CPL, SCF, CCF, and DAA.
func registerMisc() {
	baseOps[0x00] = func(c *CPU) {} // NOP

	baseOps[0xF3] = func(c *CPU) { c.reg.IFF1, c.reg.IFF2 = false, false } // DI
	baseOps[0xFB] = func(c *CPU) { // EI
		c.reg.IFF1, c.reg.IFF2 = true, true
		// The instruction immediately following EI always runs with
		// interrupts still shadowed off for that one step.
		c.eiShadow = true
	}

	edOps[0x46] = func(c *CPU) { c.reg.IM = IM0; c.cycles += 4 }
	edOps[0x56] = func(c *CPU) { c.reg.IM = IM1; c.cycles += 4 }
	edOps[0x5E] = func(c *CPU) { c.reg.IM = IM2; c.cycles += 4 }
	// The ED opcode map repeats the IM selectors and NEG/RETN at
	// several aliased encodings; only the canonical ones are wired.

	edOps[0x44] = func(c *CPU) { // NEG
		v := c.reg.A
		result := uint16(0) - uint16(v)
		c.reg.F = subFlags(0, v, 0, result)
		c.reg.A = uint8(result)
		c.cycles += 4
	}

	baseOps[0x2F] = func(c *CPU) { // CPL
		c.reg.A = ^c.reg.A
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV|flagC) | flagH | flagN | c.reg.A&(flagF3|flagF5)
	}
	baseOps[0x37] = func(c *CPU) { // SCF
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | flagC | c.reg.A&(flagF3|flagF5)
	}
	baseOps[0x3F] = func(c *CPU) { // CCF
		oldC := c.reg.F & flagC
		f := c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagF3|flagF5)
		if oldC != 0 {
			f |= flagH
		} else {
			f |= flagC
		}
		c.reg.F = f
	}
	baseOps[0x27] = func(c *CPU) { daa(c) } // DAA
}

// daa adjusts A after a BCD addition or subtraction, following the
// standard correction table keyed on N, H, C, and the two nibbles of A.
func daa(c *CPU) {
	a := c.reg.A
	adjust := uint8(0)
	carry := c.reg.F&flagC != 0
	halfCarry := c.reg.F&flagH != 0
	sub := c.reg.F&flagN != 0

	if halfCarry || (!sub && a&0xF > 9) {
		adjust |= 0x06
	}
	if carry || (!sub && a > 0x99) {
		adjust |= 0x60
		carry = true
	}

	var result uint8
	if sub {
		result = a - adjust
	} else {
		result = a + adjust
	}

	f := szFlags(result)
	if parity(result) {
		f |= flagPV
	}
	if sub {
		f |= flagN
	}
	if carry {
		f |= flagC
	}
	if sub {
		if halfCarry && a&0xF < 6 {
			f |= flagH
		}
	} else {
		if a&0xF > 9 {
			f |= flagH
		}
	}
	c.reg.A = result
	c.reg.F = f
}
