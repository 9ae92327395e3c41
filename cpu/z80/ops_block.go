package z80

// registerBlock builds the ED-prefixed block transfer/search/IO group:
// LDI/LDD/LDIR/LDDR, CPI/CPD/CPIR/CPDR, INI/IND/INIR/INDR, and
// OUTI/OUTD/OTIR/OTDR. The repeating (IR/DR) forms rewind PC by 2 to
// re-execute the two-byte ED instruction on the next Step while the
// counter is still nonzero, exactly as real hardware does instead of
// looping internally — so a timer or interrupt polled every Step still
// sees every intermediate byte transferred.
func registerBlock() {
	edOps[0xA0] = func(c *CPU) { blockLD(c, 1) }                 // LDI
	edOps[0xA8] = func(c *CPU) { blockLD(c, -1) }                // LDD
	edOps[0xB0] = func(c *CPU) { blockLDRepeat(c, 1) }           // LDIR
	edOps[0xB8] = func(c *CPU) { blockLDRepeat(c, -1) }          // LDDR
	edOps[0xA1] = func(c *CPU) { blockCP(c, 1) }                 // CPI
	edOps[0xA9] = func(c *CPU) { blockCP(c, -1) }                // CPD
	edOps[0xB1] = func(c *CPU) { blockCPRepeat(c, 1) }           // CPIR
	edOps[0xB9] = func(c *CPU) { blockCPRepeat(c, -1) }          // CPDR
	edOps[0xA2] = func(c *CPU) { blockIN(c, 1) }                 // INI
	edOps[0xAA] = func(c *CPU) { blockIN(c, -1) }                // IND
	edOps[0xB2] = func(c *CPU) { blockINRepeat(c, 1) }           // INIR
	edOps[0xBA] = func(c *CPU) { blockINRepeat(c, -1) }          // INDR
	edOps[0xA3] = func(c *CPU) { blockOUT(c, 1) }                // OUTI
	edOps[0xAB] = func(c *CPU) { blockOUT(c, -1) }               // OUTD
	edOps[0xB3] = func(c *CPU) { blockOUTRepeat(c, 1) }          // OTIR
	edOps[0xBB] = func(c *CPU) { blockOUTRepeat(c, -1) }         // OTDR
}

func hlde(c *CPU) (hl, de uint16) {
	return c.hl(), uint16(c.reg.D)<<8 | uint16(c.reg.E)
}

func blockLD(c *CPU, step int16) {
	hl, de := hlde(c)
	v := c.bus.Read(hl)
	c.bus.Write(de, v)
	c.setHL(uint16(int32(hl) + int32(step)))
	de = uint16(int32(de) + int32(step))
	c.reg.D, c.reg.E = uint8(de>>8), uint8(de)
	bc := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	bc--
	c.reg.B, c.reg.C = uint8(bc>>8), uint8(bc)

	n := v + c.reg.A
	c.reg.F = c.reg.F&(flagS|flagZ|flagC) | n&flagF3 | (n<<4)&flagF5
	if bc != 0 {
		c.reg.F |= flagPV
	}
	c.cycles += 16
}

func blockLDRepeat(c *CPU, step int16) {
	blockLD(c, step)
	bc := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	if bc != 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}

func blockCP(c *CPU, step int16) {
	hl := c.hl()
	v := c.bus.Read(hl)
	result := uint16(c.reg.A) - uint16(v)
	c.setHL(uint16(int32(hl) + int32(step)))
	bc := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	bc--
	c.reg.B, c.reg.C = uint8(bc>>8), uint8(bc)

	half := subFlags(c.reg.A, v, 0, result) & flagH
	n := uint8(result)
	if half != 0 {
		n--
	}
	f := szFlags(uint8(result)) | flagN | half | c.reg.F&flagC
	f = f&^(flagF3|flagF5) | n&flagF3 | (n<<4)&flagF5
	if bc != 0 {
		f |= flagPV
	}
	c.reg.F = f
	c.cycles += 16
}

func blockCPRepeat(c *CPU, step int16) {
	blockCP(c, step)
	bc := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	if bc != 0 && c.reg.F&flagZ == 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}

func blockIN(c *CPU, step int16) {
	hl := c.hl()
	port := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	v := c.io.In(port)
	c.bus.Write(hl, v)
	c.setHL(uint16(int32(hl) + int32(step)))
	c.reg.B--
	c.reg.F = szFlags(c.reg.B) | flagN
	c.cycles += 16
}

func blockINRepeat(c *CPU, step int16) {
	blockIN(c, step)
	if c.reg.B != 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}

func blockOUT(c *CPU, step int16) {
	hl := c.hl()
	v := c.bus.Read(hl)
	port := uint16(c.reg.B)<<8 | uint16(c.reg.C)
	c.io.Out(port, v)
	c.setHL(uint16(int32(hl) + int32(step)))
	c.reg.B--
	c.reg.F = szFlags(c.reg.B) | flagN
	c.cycles += 16
}

func blockOUTRepeat(c *CPU, step int16) {
	blockOUT(c, step)
	if c.reg.B != 0 {
		c.reg.PC -= 2
		c.cycles += 5
	}
}
