package z80

// rotateShiftOp performs one of the eight CB-space rotate/shift
// operations (y selects which) on v and updates F, returning the
// result. SLL ("shift logical left", y=6) is the undocumented op that
// shifts in a 1 instead of a 0; it's included because real software in
// the wild depends on it.
func rotateShiftOp(c *CPU, y uint8, v uint8) uint8 {
	var result uint8
	var carry bool
	switch y {
	case 0: // RLC
		carry = v&0x80 != 0
		result = v<<1 | b2u8(carry)
	case 1: // RRC
		carry = v&1 != 0
		result = v>>1 | (v&1)<<7
	case 2: // RL
		carry = v&0x80 != 0
		result = v<<1 | b2u8(c.reg.F&flagC != 0)
	case 3: // RR
		carry = v&1 != 0
		result = v>>1 | (v&flagC)<<7
	case 4: // SLA
		carry = v&0x80 != 0
		result = v << 1
	case 5: // SRA
		carry = v&1 != 0
		result = v&0x80 | v>>1
	case 6: // SLL (undocumented)
		carry = v&0x80 != 0
		result = v<<1 | 1
	default: // SRL
		carry = v&1 != 0
		result = v >> 1
	}
	f := logicFlags(result, false) &^ flagH
	if carry {
		f |= flagC
	}
	c.reg.F = f
	return result
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// bitTest implements BIT y,v: Z set if the bit is clear, PV mirrors Z
// (the common convention used to let BIT feed JP PO/PE), H always set,
// N always clear. S and F5/F3 reflect the tested bit's position for bit
// 7 (S) and the result byte's bits 5/3 — approximated here as mirroring
// v's own bits 5/3 (undocumented detail real hardware varies on when
// the operand is (HL)).
func bitTest(c *CPU, y uint8, v uint8) {
	bit := v & (1 << y)
	f := c.reg.F & flagC
	f |= flagH
	f |= v & (flagF3 | flagF5)
	if bit == 0 {
		f |= flagZ | flagPV
	}
	if y == 7 && bit != 0 {
		f |= flagS
	}
	c.reg.F = f
}

// registerBitOps builds the CB-prefixed rotate/shift/BIT/RES/SET table
// (opcode = xx yyy zzz) and the four single-byte accumulator rotates
// RLCA/RRCA/RLA/RRA.
func registerBitOps() {
	for op := 0; op < 256; op++ {
		opcode := uint8(op)
		x := opcode >> 6
		y := (opcode >> 3) & 7
		z := opcode & 7
		switch x {
		case 0:
			cbOps[opcode] = func(c *CPU) {
				get, set := c.r8(z)
				set(rotateShiftOp(c, y, get()))
				if z == 6 {
					c.cycles += 7
				}
			}
		case 1:
			cbOps[opcode] = func(c *CPU) {
				get, _ := c.r8(z)
				bitTest(c, y, get())
				if z == 6 {
					c.cycles += 4
				}
			}
		case 2:
			cbOps[opcode] = func(c *CPU) {
				get, set := c.r8(z)
				set(get() &^ (1 << y))
				if z == 6 {
					c.cycles += 7
				}
			}
		default: // 3: SET
			cbOps[opcode] = func(c *CPU) {
				get, set := c.r8(z)
				set(get() | (1 << y))
				if z == 6 {
					c.cycles += 7
				}
			}
		}
	}

	baseOps[0x07] = func(c *CPU) { // RLCA
		carry := c.reg.A&0x80 != 0
		c.reg.A = c.reg.A<<1 | b2u8(carry)
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagF3|flagF5) | b2u8(carry)
	}
	baseOps[0x0F] = func(c *CPU) { // RRCA
		carry := c.reg.A&1 != 0
		c.reg.A = c.reg.A>>1 | (c.reg.A&1)<<7
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagF3|flagF5) | b2u8(carry)
	}
	baseOps[0x17] = func(c *CPU) { // RLA
		carry := c.reg.A&0x80 != 0
		c.reg.A = c.reg.A<<1 | b2u8(c.reg.F&flagC != 0)
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagF3|flagF5) | b2u8(carry)
	}
	baseOps[0x1F] = func(c *CPU) { // RRA
		carry := c.reg.A&1 != 0
		c.reg.A = c.reg.A>>1 | b2u8(c.reg.F&flagC != 0)<<7
		c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | c.reg.A&(flagF3|flagF5) | b2u8(carry)
	}
}
