package z80

import "testing"

func TestLD_B_n(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	mem.Write(0, 0x06) // LD B,n
	mem.Write(1, 0x42)
	cpu.Step()
	if cpu.Registers().B != 0x42 {
		t.Fatalf("B = %#x, want 0x42", cpu.Registers().B)
	}
}

func TestLD_r_r(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	regs := cpu.Registers()
	regs.C = 0x7
	cpu.SetRegisters(regs)
	mem.Write(0, 0x41) // LD B,C
	cpu.Step()
	if cpu.Registers().B != 0x7 {
		t.Fatalf("B = %#x, want 0x7", cpu.Registers().B)
	}
}

func TestADD_A_n(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	regs := cpu.Registers()
	regs.A = 0x0F
	cpu.SetRegisters(regs)
	mem.Write(0, 0xC6) // ADD A,n
	mem.Write(1, 0x01)
	cpu.Step()
	if cpu.Registers().A != 0x10 {
		t.Fatalf("A = %#x, want 0x10", cpu.Registers().A)
	}
	if cpu.Registers().F&flagH == 0 {
		t.Fatal("expected half-carry flag set")
	}
}

func TestJR_NZ_Taken(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	mem.Write(0, 0x20) // JR NZ,+2
	mem.Write(1, 0x02)
	cpu.Step()
	if cpu.Registers().PC != 4 {
		t.Fatalf("PC = %#x, want 4 (branch taken since Z starts clear)", cpu.Registers().PC)
	}
}

func TestPushPop(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	regs := cpu.Registers()
	regs.SP = 0x1000
	regs.B, regs.C = 0x12, 0x34
	cpu.SetRegisters(regs)
	mem.Write(0, 0xC5) // PUSH BC
	mem.Write(1, 0xD1) // POP DE
	cpu.Step()
	cpu.Step()
	if cpu.Registers().D != 0x12 || cpu.Registers().E != 0x34 {
		t.Fatalf("DE = %02x%02x, want 1234", cpu.Registers().D, cpu.Registers().E)
	}
	if cpu.Registers().SP != 0x1000 {
		t.Fatalf("SP = %#x, want 0x1000 (balanced push/pop)", cpu.Registers().SP)
	}
}

func TestIndexedLoad(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	regs := cpu.Registers()
	regs.IX = 0x2000
	cpu.SetRegisters(regs)
	mem.Write(0x2005, 0x99)
	mem.Write(0, 0xDD) // LD A,(IX+5)
	mem.Write(1, 0x7E)
	mem.Write(2, 0x05)
	cpu.Step()
	if cpu.Registers().A != 0x99 {
		t.Fatalf("A = %#x, want 0x99", cpu.Registers().A)
	}
}

func TestCBRotateRegister(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	regs := cpu.Registers()
	regs.B = 0x80
	cpu.SetRegisters(regs)
	mem.Write(0, 0xCB) // RLC B
	mem.Write(1, 0x00)
	cpu.Step()
	if cpu.Registers().B != 0x01 {
		t.Fatalf("B = %#x, want 0x01", cpu.Registers().B)
	}
	if cpu.Registers().F&flagC == 0 {
		t.Fatal("expected carry out of bit 7")
	}
}

func TestBlockLDIR(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	mem.Write(0x0000, 0xAA)
	mem.Write(0x0001, 0xBB)
	regs := cpu.Registers()
	regs.H, regs.L = 0x00, 0x00
	regs.D, regs.E = 0x10, 0x00
	regs.B, regs.C = 0x00, 0x02
	cpu.SetRegisters(regs)
	mem.Write(0x8000, 0xED)
	mem.Write(0x8001, 0xB0) // LDIR
	regs = cpu.Registers()
	regs.PC = 0x8000
	cpu.SetRegisters(regs)

	cpu.Step() // first iteration, rewinds PC
	cpu.Step() // second iteration, BC hits 0

	if mem.Read(0x1000) != 0xAA || mem.Read(0x1001) != 0xBB {
		t.Fatalf("LDIR did not copy both bytes: %#x %#x", mem.Read(0x1000), mem.Read(0x1001))
	}
	if cpu.Registers().B != 0 || cpu.Registers().C != 0 {
		t.Fatal("expected BC to reach 0")
	}
}

func TestEIShadowDelaysOneInstruction(t *testing.T) {
	cpu, mem, _ := newTestCPU()
	mem.Write(0, 0xFB) // EI
	mem.Write(1, 0x00) // NOP
	cpu.RaiseInt(0)
	regs := cpu.Registers()
	regs.IM = IM1
	cpu.SetRegisters(regs)

	cpu.Step() // EI: IFF1 set, but interrupt must not be taken this step
	if cpu.Registers().PC != 1 {
		t.Fatalf("PC = %d after EI, want 1 (interrupt must not preempt EI itself)", cpu.Registers().PC)
	}
	cpu.Step() // NOP executes normally, THEN the interrupt may be taken next
	if cpu.Registers().PC != 2 {
		t.Fatalf("PC = %d after shadowed NOP, want 2", cpu.Registers().PC)
	}
}
