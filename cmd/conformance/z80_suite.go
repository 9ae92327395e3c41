package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user-none/go-retrocore/cpu/z80"
)

// z80ExceptionFiles lists jsmoo Z80 v1 JSON base names whose mnemonic
// drives an interrupt-acceptance or HALT path rather than straight-line
// execution, for the --exceptions classification.
var z80ExceptionFiles = map[string]bool{
	"76":    true, // HALT
	"ed 45": true, // RETN
	"ed 4d": true, // RETI
}

// flatMem is a flat 64 KiB byte-addressed memory used directly as a
// z80.Bus, mirroring cpu/z80's own testMem but on exported surface only.
type flatMem [65536]byte

func (m *flatMem) Read(addr uint16) uint8       { return m[addr] }
func (m *flatMem) Write(addr uint16, val uint8) { m[addr] = val }

// flatIO records port writes and answers port reads from a fixed map,
// mirroring cpu/z80's testIO.
type flatIO struct {
	ins  map[uint16]uint8
	outs map[uint16]uint8
}

func newFlatIO() *flatIO {
	return &flatIO{ins: map[uint16]uint8{}, outs: map[uint16]uint8{}}
}

func (io *flatIO) In(port uint16) uint8 { return io.ins[port] }
func (io *flatIO) Out(port uint16, val uint8) {
	io.outs[port] = val
}

type z80State struct {
	AF, BC, DE, HL     uint16
	AF2, BC2, DE2, HL2 uint16
	IX, IY, SP, PC     uint16
	I, R               uint8
	IFF1, IFF2         int
	IM                 int
	RAM                [][2]int64
	Ports              map[uint16]uint8
}

func (s *z80State) UnmarshalJSON(data []byte) error {
	var m struct {
		AF   uint16     `json:"af"`
		BC   uint16     `json:"bc"`
		DE   uint16     `json:"de"`
		HL   uint16     `json:"hl"`
		AF2  uint16     `json:"af_"`
		BC2  uint16     `json:"bc_"`
		DE2  uint16     `json:"de_"`
		HL2  uint16     `json:"hl_"`
		IX   uint16     `json:"ix"`
		IY   uint16     `json:"iy"`
		SP   uint16     `json:"sp"`
		PC   uint16     `json:"pc"`
		I    uint8      `json:"i"`
		R    uint8      `json:"r"`
		IFF1 int        `json:"iff1"`
		IFF2 int        `json:"iff2"`
		IM   int        `json:"im"`
		RAM  [][2]int64 `json:"ram"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = z80State{
		AF: m.AF, BC: m.BC, DE: m.DE, HL: m.HL,
		AF2: m.AF2, BC2: m.BC2, DE2: m.DE2, HL2: m.HL2,
		IX: m.IX, IY: m.IY, SP: m.SP, PC: m.PC,
		I: m.I, R: m.R, IFF1: m.IFF1, IFF2: m.IFF2, IM: m.IM,
		RAM: m.RAM,
	}
	return nil
}

func (s *z80State) registers() z80.Registers {
	return z80.Registers{
		A: uint8(s.AF >> 8), F: uint8(s.AF),
		B: uint8(s.BC >> 8), C: uint8(s.BC),
		D: uint8(s.DE >> 8), E: uint8(s.DE),
		H: uint8(s.HL >> 8), L: uint8(s.HL),
		A2: uint8(s.AF2 >> 8), F2: uint8(s.AF2),
		B2: uint8(s.BC2 >> 8), C2: uint8(s.BC2),
		D2: uint8(s.DE2 >> 8), E2: uint8(s.DE2),
		H2: uint8(s.HL2 >> 8), L2: uint8(s.HL2),
		IX: s.IX, IY: s.IY, SP: s.SP, PC: s.PC,
		I: s.I, R: s.R,
		IFF1: s.IFF1 != 0, IFF2: s.IFF2 != 0,
		IM: z80.InterruptMode(s.IM),
	}
}

type z80Test struct {
	Name    string   `json:"name"`
	Initial z80State `json:"initial"`
	Final   z80State `json:"final"`
	Cycles  []any    `json:"cycles"`
}

func runZ80Suite(opts runOptions) (runSummary, error) {
	files, err := jsonTestFiles(opts.dir, opts.filter)
	if err != nil {
		return runSummary{}, err
	}

	var sum runSummary
	for _, fname := range files {
		base := strings.TrimSuffix(fname, ".json")
		isException := z80ExceptionFiles[base]

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
		var tests []z80Test
		if err := json.Unmarshal(data, &tests); err != nil {
			return sum, fmt.Errorf("parsing %s: %w", fname, err)
		}

		sum.files++
		filePassed, filefailed := 0, 0

		for i := range tests {
			jt := &tests[i]
			if opts.only != "" && jt.Name != opts.only {
				continue
			}
			ok, diff := runZ80Case(jt, opts)
			if ok {
				filePassed++
				continue
			}
			filefailed++
			if opts.debug {
				fmt.Printf("FAIL %s/%s: %s\n", base, jt.Name, diff)
			}
		}

		sum.passed += filePassed
		sum.failed += filefailed
		if !opts.quiet {
			fmt.Printf("%-24s pass=%-4d fail=%d\n", base, filePassed, filefailed)
		}
	}
	return sum, nil
}

func runZ80Case(jt *z80Test, opts runOptions) (ok bool, diff string) {
	mem := &flatMem{}
	for _, cell := range jt.Initial.RAM {
		mem[uint16(cell[0])] = byte(cell[1])
	}
	io := newFlatIO()

	cpu := z80.New(mem, io)
	cpu.SetRegisters(jt.Initial.registers())

	cycles := cpu.Step()

	got := cpu.Registers()
	want := jt.Final.registers()

	check := func(name string, g, w uint16) (bool, string) {
		if g != w {
			return false, fmt.Sprintf("%s = %#04x, want %#04x", name, g, w)
		}
		return true, ""
	}
	pairs := []struct {
		name    string
		got, want uint16
	}{
		{"AF", uint16(got.A)<<8 | uint16(got.F), uint16(want.A)<<8 | uint16(want.F)},
		{"BC", uint16(got.B)<<8 | uint16(got.C), uint16(want.B)<<8 | uint16(want.C)},
		{"DE", uint16(got.D)<<8 | uint16(got.E), uint16(want.D)<<8 | uint16(want.E)},
		{"HL", uint16(got.H)<<8 | uint16(got.L), uint16(want.H)<<8 | uint16(want.L)},
		{"IX", got.IX, want.IX},
		{"IY", got.IY, want.IY},
		{"SP", got.SP, want.SP},
		{"PC", got.PC, want.PC},
	}
	for _, p := range pairs {
		if ok, msg := check(p.name, p.got, p.want); !ok {
			return false, msg
		}
	}

	for _, cell := range jt.Final.RAM {
		addr := uint16(cell[0])
		wantVal := byte(cell[1])
		if gotVal := mem.Read(addr); gotVal != wantVal {
			return false, fmt.Sprintf("RAM[%#04x] = %#02x, want %#02x", addr, gotVal, wantVal)
		}
	}

	if opts.timing && len(jt.Cycles) > 0 && cycles != len(jt.Cycles) {
		return false, fmt.Sprintf("cycles = %d, want %d", cycles, len(jt.Cycles))
	}
	return true, ""
}
