package z80

// condition evaluates one of the eight branch conditions encoded in
// the cc field: 0=NZ 1=Z 2=NC 3=C 4=PO 5=PE 6=P 7=M.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return c.reg.F&flagZ == 0
	case 1:
		return c.reg.F&flagZ != 0
	case 2:
		return c.reg.F&flagC == 0
	case 3:
		return c.reg.F&flagC != 0
	case 4:
		return c.reg.F&flagPV == 0
	case 5:
		return c.reg.F&flagPV != 0
	case 6:
		return c.reg.F&flagS == 0
	default: // 7
		return c.reg.F&flagS != 0
	}
}

// registerJump builds JP nn, JP cc,nn, JP (HL/IX/IY), JR e, JR cc,e
// (relative forms only exist for NZ/Z/NC/C), and DJNZ e.
func registerJump() {
	baseOps[0xC3] = func(c *CPU) { // JP nn
		c.reg.PC = c.fetchWord()
		c.cycles += 6
	}
	for cc := uint8(0); cc < 8; cc++ {
		ccv := cc
		opcode := 0xC2 | ccv<<3
		baseOps[opcode] = func(c *CPU) {
			nn := c.fetchWord()
			if c.condition(ccv) {
				c.reg.PC = nn
			}
			c.cycles += 6
		}
	}
	baseOps[0xE9] = func(c *CPU) { // JP (HL)/(IX)/(IY)
		c.reg.PC = c.hl()
	}

	baseOps[0x18] = func(c *CPU) { // JR e
		e := int8(c.fetchByte())
		c.reg.PC = uint16(int32(c.reg.PC) + int32(e))
		c.cycles += 8
	}
	jrCC := []uint8{0, 1, 2, 3} // NZ, Z, NC, C only
	for i, ccv := range jrCC {
		opcode := 0x20 | uint8(i)<<3
		cond := ccv
		baseOps[opcode] = func(c *CPU) {
			e := int8(c.fetchByte())
			if c.condition(cond) {
				c.reg.PC = uint16(int32(c.reg.PC) + int32(e))
				c.cycles += 5
			}
			c.cycles += 7
		}
	}
	baseOps[0x10] = func(c *CPU) { // DJNZ e
		e := int8(c.fetchByte())
		c.reg.B--
		if c.reg.B != 0 {
			c.reg.PC = uint16(int32(c.reg.PC) + int32(e))
			c.cycles += 5
		}
		c.cycles += 8
	}
}
