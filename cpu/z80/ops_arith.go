package z80

// registerALU8 builds the 8-bit ALU group: ADD/ADC/SUB/SBC/AND/XOR/OR/CP
// against a register or (HL) (opcode 0x80-0xBF) and against an immediate
// byte (opcode 0xC6,0xCE,...,0xFE), plus the 16-bit ADD/ADC/SBC HL,rp
// group and DAA/CPL/NEG/CCF/SCF.
func registerALU8() {
	ops := []func(c *CPU, v uint8){
		aluAdd, aluAdc, aluSub, aluSbc, aluAnd, aluXor, aluOr, aluCp,
	}
	for op := 0x80; op < 0xC0; op++ {
		opcode := uint8(op)
		which := (opcode >> 3) & 7
		src := opcode & 7
		fn := ops[which]
		baseOps[opcode] = func(c *CPU) {
			get, _ := c.r8(src)
			fn(c, get())
			if src == 6 {
				c.cycles += 3
			}
		}
	}
	for which := uint8(0); which < 8; which++ {
		opcode := 0xC6 | which<<3
		fn := ops[which]
		baseOps[opcode] = func(c *CPU) {
			n := c.fetchByte()
			fn(c, n)
			c.cycles += 3
		}
	}

	for p := uint8(0); p < 4; p++ {
		pp := p
		opcode := 0x09 | pp<<4
		baseOps[opcode] = func(c *CPU) {
			get, _ := c.rp(pp)
			hl := c.hl()
			result := uint32(hl) + uint32(get())
			c.setHL(uint16(result))
			c.reg.F = c.reg.F&(flagS|flagZ|flagPV) | addFlags16(hl, get(), result)
			c.cycles += 11
		}
		edAdc := 0x4A | pp<<4
		edOps[edAdc] = func(c *CPU) {
			get, _ := c.rp(pp)
			hl := c.hl()
			carry := uint16(0)
			if c.reg.F&flagC != 0 {
				carry = 1
			}
			result := uint32(hl) + uint32(get()) + uint32(carry)
			c.setHL(uint16(result))
			f := addFlags16(hl, get(), result)
			if uint16(result) == 0 {
				f |= flagZ
			}
			f |= overflow16(hl, get(), carry, uint16(result))
			f |= uint16ToSignFlag(uint16(result))
			c.reg.F = f
			c.cycles += 15
		}
		edSbc := 0x42 | pp<<4
		edOps[edSbc] = func(c *CPU) {
			get, _ := c.rp(pp)
			hl := c.hl()
			carry := uint16(0)
			if c.reg.F&flagC != 0 {
				carry = 1
			}
			result := int32(hl) - int32(get()) - int32(carry)
			c.setHL(uint16(result))
			f := uint8(flagN)
			if result < 0 {
				f |= flagC
			}
			if (hl&0xFFF)-(get()&0xFFF)-carry > 0xFFF {
				f |= flagH
			}
			if uint16(result) == 0 {
				f |= flagZ
			}
			f |= uint16ToSignFlag(uint16(result))
			f |= subOverflow16(hl, get(), carry, uint16(result))
			c.reg.F = f
			c.cycles += 15
		}
	}
}

func uint16ToSignFlag(v uint16) uint8 {
	f := uint8(v>>8) & flagS
	f |= uint8(v>>8) & (flagF3 | flagF5)
	if v == 0 {
		f |= flagZ
	}
	return f
}

func overflow16(a, b, carry, result uint16) uint8 {
	sum := int32(int16(a)) + int32(int16(b)) + int32(carry)
	if sum != int32(int16(result)) {
		return flagPV
	}
	return 0
}

func subOverflow16(a, b, carry, result uint16) uint8 {
	diff := int32(int16(a)) - int32(int16(b)) - int32(carry)
	if diff != int32(int16(result)) {
		return flagPV
	}
	return 0
}

func aluAdd(c *CPU, v uint8) {
	result := uint16(c.reg.A) + uint16(v)
	c.reg.F = addFlags(c.reg.A, v, 0, result)
	c.reg.A = uint8(result)
}

func aluAdc(c *CPU, v uint8) {
	var carry uint8
	if c.reg.F&flagC != 0 {
		carry = 1
	}
	result := uint16(c.reg.A) + uint16(v) + uint16(carry)
	c.reg.F = addFlags(c.reg.A, v, carry, result)
	c.reg.A = uint8(result)
}

func aluSub(c *CPU, v uint8) {
	result := uint16(c.reg.A) - uint16(v)
	c.reg.F = subFlags(c.reg.A, v, 0, result)
	c.reg.A = uint8(result)
}

func aluSbc(c *CPU, v uint8) {
	var carry uint8
	if c.reg.F&flagC != 0 {
		carry = 1
	}
	result := uint16(c.reg.A) - uint16(v) - uint16(carry)
	c.reg.F = subFlags(c.reg.A, v, carry, result)
	c.reg.A = uint8(result)
}

func aluAnd(c *CPU, v uint8) {
	c.reg.A &= v
	c.reg.F = logicFlags(c.reg.A, true)
}

func aluXor(c *CPU, v uint8) {
	c.reg.A ^= v
	c.reg.F = logicFlags(c.reg.A, false)
}

func aluOr(c *CPU, v uint8) {
	c.reg.A |= v
	c.reg.F = logicFlags(c.reg.A, false)
}

func aluCp(c *CPU, v uint8) {
	result := uint16(c.reg.A) - uint16(v)
	c.reg.F = subFlags(c.reg.A, v, 0, result)&^(flagF3|flagF5) | v&(flagF3|flagF5)
}

// registerMisc (in ops_misc.go) wires DAA/CPL/NEG/CCF/SCF; kept
// separate from the ALU group since they don't follow the 3-bit ALU
// selector encoding.
