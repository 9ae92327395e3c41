package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user-none/go-retrocore/cpu/m68k"
)

// m68kExceptionFiles lists SingleStepTests/680x0 JSON base names (no
// extension) whose mnemonic always or usually drives the CPU through
// an exception vector rather than straight-line execution, for the
// --exceptions classification.
var m68kExceptionFiles = map[string]bool{
	"CHK":     true,
	"TRAP":    true,
	"TRAPV":   true,
	"DIVU":    true,
	"DIVS":    true,
	"ILLEGAL": true,
	"RESET":   true,
}

// flatBus is a flat 16 MiB byte-addressed memory used directly as an
// m68k.Bus/m68k.CycleBus, mirroring cpu/m68k's own testBus but built
// only on the package's exported surface.
type flatBus struct {
	mem [16 * 1024 * 1024]byte
}

func (b *flatBus) ReadCycle(_ uint64, sz m68k.Size, addr uint32) uint32 {
	addr &= 0xFFFFFF
	switch sz {
	case m68k.Byte:
		return uint32(b.mem[addr])
	case m68k.Word:
		return uint32(b.mem[addr])<<8 | uint32(b.mem[addr+1])
	default:
		return uint32(b.mem[addr])<<24 | uint32(b.mem[addr+1])<<16 |
			uint32(b.mem[addr+2])<<8 | uint32(b.mem[addr+3])
	}
}

func (b *flatBus) WriteCycle(_ uint64, sz m68k.Size, addr uint32, val uint32) {
	addr &= 0xFFFFFF
	switch sz {
	case m68k.Byte:
		b.mem[addr] = byte(val)
	case m68k.Word:
		b.mem[addr] = byte(val >> 8)
		b.mem[addr+1] = byte(val)
	default:
		b.mem[addr] = byte(val >> 24)
		b.mem[addr+1] = byte(val >> 16)
		b.mem[addr+2] = byte(val >> 8)
		b.mem[addr+3] = byte(val)
	}
}

func (b *flatBus) Read(sz m68k.Size, addr uint32) uint32     { return b.ReadCycle(0, sz, addr) }
func (b *flatBus) Write(sz m68k.Size, addr uint32, v uint32) { b.WriteCycle(0, sz, addr, v) }
func (b *flatBus) Reset()                                    {}

// m68kState holds SingleStepTests/680x0's flat register/RAM encoding.
type m68kState struct {
	D0, D1, D2, D3, D4, D5, D6, D7 uint32
	A0, A1, A2, A3, A4, A5, A6     uint32
	USP, SSP                       uint32
	SR                             uint16
	PC                             uint32
	Prefetch                       [2]uint16
	RAM                            [][2]uint32
}

func (s *m68kState) UnmarshalJSON(data []byte) error {
	var m struct {
		D0       uint32     `json:"d0"`
		D1       uint32     `json:"d1"`
		D2       uint32     `json:"d2"`
		D3       uint32     `json:"d3"`
		D4       uint32     `json:"d4"`
		D5       uint32     `json:"d5"`
		D6       uint32     `json:"d6"`
		D7       uint32     `json:"d7"`
		A0       uint32     `json:"a0"`
		A1       uint32     `json:"a1"`
		A2       uint32     `json:"a2"`
		A3       uint32     `json:"a3"`
		A4       uint32     `json:"a4"`
		A5       uint32     `json:"a5"`
		A6       uint32     `json:"a6"`
		USP      uint32     `json:"usp"`
		SSP      uint32     `json:"ssp"`
		SR       uint16     `json:"sr"`
		PC       uint32     `json:"pc"`
		Prefetch [2]uint16  `json:"prefetch"`
		RAM      [][]uint32 `json:"ram"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = m68kState{
		D0: m.D0, D1: m.D1, D2: m.D2, D3: m.D3, D4: m.D4, D5: m.D5, D6: m.D6, D7: m.D7,
		A0: m.A0, A1: m.A1, A2: m.A2, A3: m.A3, A4: m.A4, A5: m.A5, A6: m.A6,
		USP: m.USP, SSP: m.SSP, SR: m.SR, PC: m.PC, Prefetch: m.Prefetch,
	}
	for _, entry := range m.RAM {
		s.RAM = append(s.RAM, [2]uint32{entry[0], entry[1]})
	}
	return nil
}

func (s *m68kState) registers() m68k.Registers {
	var a [8]uint32
	a[0], a[1], a[2], a[3], a[4], a[5], a[6] = s.A0, s.A1, s.A2, s.A3, s.A4, s.A5, s.A6
	return m68k.Registers{
		D:   [8]uint32{s.D0, s.D1, s.D2, s.D3, s.D4, s.D5, s.D6, s.D7},
		A:   a,
		PC:  s.PC,
		SR:  s.SR,
		USP: s.USP,
		SSP: s.SSP,
	}
}

type m68kTest struct {
	Name    string    `json:"name"`
	Initial m68kState `json:"initial"`
	Final   m68kState `json:"final"`
	Length  int       `json:"length"`
}

// m68kPrefetchOffset adjusts for the SingleStepTests model of the 68000's
// two-word prefetch queue, which this interpreter does not model: the
// suite's PC is four bytes ahead of the instruction actually decoded.
const m68kPrefetchOffset uint32 = 4

func runM68kSuite(opts runOptions) (runSummary, error) {
	files, err := jsonTestFiles(opts.dir, opts.filter)
	if err != nil {
		return runSummary{}, err
	}

	var sum runSummary
	for _, fname := range files {
		base := strings.TrimSuffix(fname, ".json")
		isException := m68kExceptionFiles[base]

		switch opts.exceptions {
		case exceptionsExclude:
			if isException {
				continue
			}
		case exceptionsOnly:
			if !isException {
				continue
			}
		}

		data, err := os.ReadFile(filepath.Join(opts.dir, fname))
		if err != nil {
			return sum, fmt.Errorf("reading %s: %w", fname, err)
		}
		var tests []m68kTest
		if err := json.Unmarshal(data, &tests); err != nil {
			return sum, fmt.Errorf("parsing %s: %w", fname, err)
		}

		sum.files++
		filePassed, fileFailed, fileSkipped := 0, 0, 0

		for i := range tests {
			jt := &tests[i]
			if opts.only != "" && jt.Name != opts.only {
				continue
			}

			ok, diff := runM68kCase(jt, opts)
			switch {
			case opts.exceptions == exceptionsExcludeAddr && diff == addrErrorHalt:
				fileSkipped++
			case ok:
				filePassed++
			default:
				fileFailed++
				if opts.debug {
					fmt.Printf("FAIL %s/%s: %s\n", base, jt.Name, diff)
				}
			}
		}

		sum.passed += filePassed
		sum.failed += fileFailed
		sum.skipped += fileSkipped
		if !opts.quiet {
			fmt.Printf("%-24s pass=%-4d fail=%-4d skip=%d\n", base, filePassed, fileFailed, fileSkipped)
		}
	}
	return sum, nil
}

const addrErrorHalt = "address error double fault (no vector table loaded)"

// runM68kCase executes one test case to completion and diffs the
// resulting register/memory state against the expected final state.
// Returns ok=true on a clean match; otherwise diff names the mismatch
// (or addrErrorHalt if the CPU halted: an odd-address access now raises
// a proper exception, but this harness loads no vector table, so the
// exception's own vector read comes back zero and it double faults).
func runM68kCase(jt *m68kTest, opts runOptions) (ok bool, diff string) {
	bus := &flatBus{}
	for _, entry := range jt.Initial.RAM {
		bus.mem[entry[0]&0xFFFFFF] = byte(entry[1])
	}

	cpu := m68k.New(bus)
	regs := jt.Initial.registers()
	regs.PC -= m68kPrefetchOffset
	cpu.SetState(regs)

	cycles := cpu.Step()

	if cpu.Halted() {
		return false, addrErrorHalt
	}

	got := cpu.Registers()
	want := jt.Final.registers()
	wantPC := want.PC - m68kPrefetchOffset

	if got.PC != wantPC {
		return false, fmt.Sprintf("PC = %#08x, want %#08x", got.PC, wantPC)
	}
	if got.SR != want.SR {
		return false, fmt.Sprintf("SR = %#04x, want %#04x (diff %#04x)", got.SR, want.SR, got.SR^want.SR)
	}
	for i := 0; i < 8; i++ {
		if got.D[i] != want.D[i] {
			return false, fmt.Sprintf("D%d = %#08x, want %#08x", i, got.D[i], want.D[i])
		}
	}
	for i := 0; i < 7; i++ {
		if got.A[i] != want.A[i] {
			return false, fmt.Sprintf("A%d = %#08x, want %#08x", i, got.A[i], want.A[i])
		}
	}
	if want.SR&0x2000 != 0 {
		if got.A[7] != want.SSP {
			return false, fmt.Sprintf("A7/SSP = %#08x, want %#08x", got.A[7], want.SSP)
		}
		if got.USP != want.USP {
			return false, fmt.Sprintf("USP = %#08x, want %#08x", got.USP, want.USP)
		}
	} else {
		if got.A[7] != want.USP {
			return false, fmt.Sprintf("A7/USP = %#08x, want %#08x", got.A[7], want.USP)
		}
		if got.SSP != want.SSP {
			return false, fmt.Sprintf("SSP = %#08x, want %#08x", got.SSP, want.SSP)
		}
	}
	for _, entry := range jt.Final.RAM {
		addr := entry[0] & 0xFFFFFF
		wantVal := byte(entry[1])
		if gotVal := bus.mem[addr]; gotVal != wantVal {
			return false, fmt.Sprintf("RAM[%#06x] = %#02x, want %#02x", addr, gotVal, wantVal)
		}
	}
	if opts.timing && jt.Length > 0 && cycles != jt.Length {
		return false, fmt.Sprintf("cycles = %d, want %d", cycles, jt.Length)
	}
	return true, ""
}
