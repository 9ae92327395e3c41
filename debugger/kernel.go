// Package debugger implements the read-eval command loop that drives a
// system.System interactively: breakpoints, single-stepping, memory
// inspection, and per-device commands. It is a core subsystem (the
// scheduler-facing kernel), not the interactive terminal frontend that
// would read lines from a TTY and call it.
package debugger

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/user-none/go-retrocore/system"
)

// Control tells the caller what to do after RunCommand returns.
type Control int

const (
	// Wait asks the caller to prompt for the next command.
	Wait Control = iota
	// Continue asks the caller to invoke CheckAutoCommand again without
	// blocking on user input (a repeat-count command still pending, or
	// trace mode active).
	Continue
	// Exit asks the caller to leave the debug loop and resume normal
	// execution.
	Exit
)

type repeatCommand struct {
	count   uint32
	command string
}

// Kernel is the debugger's command interpreter, bound to one System.
// It holds no state about any particular device beyond what each
// device's own Debuggable capability exposes.
type Kernel struct {
	sys       *system.System
	out       io.Writer
	repeat    *repeatCommand
	traceOnly bool
}

// New returns a Kernel driving sys, writing command output to out.
func New(sys *system.System, out io.Writer) *Kernel {
	return &Kernel{sys: sys, out: out}
}

// BreakpointOccurred tells the Kernel a breakpoint was just hit,
// ending any trace-only run that was in progress.
func (k *Kernel) BreakpointOccurred() {
	k.traceOnly = false
}

// CheckAutoCommand re-runs a pending repeat-count command, or continues
// an active trace, without requiring new user input. It returns Wait
// when the caller should next prompt for a command.
func (k *Kernel) CheckAutoCommand() (Control, error) {
	if k.traceOnly {
		return Continue, nil
	}

	if k.repeat != nil {
		rc := k.repeat
		k.repeat = nil
		ctrl, err := k.RunCommand(rc.command)
		if err != nil {
			return ctrl, err
		}
		if rc.count > 1 {
			k.repeat = &repeatCommand{count: rc.count - 1, command: rc.command}
		}
		return Continue, nil
	}

	return Wait, nil
}

// RunCommand parses and executes one command line.
func (k *Kernel) RunCommand(command string) (Control, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = []string{"step"}
	}

	switch args[0] {
	case "b", "break", "breakpoint":
		return Wait, k.cmdBreakpoint(args, true)
	case "r", "remove":
		return Wait, k.cmdBreakpoint(args, false)
	case "w", "watch":
		return Wait, k.cmdWatch(args, true)
	case "rw", "rwatch", "remove_watch":
		return Wait, k.cmdWatch(args, false)
	case "d", "dump":
		return Wait, k.cmdDump(args)
	case "i", "inspect":
		return Wait, k.cmdInspect(args)
	case "dis", "disassemble":
		return Wait, k.cmdDisassemble(args)
	case "reg", "registers":
		return Wait, k.cmdRegisters(args)
	case "c", "continue":
		if err := k.checkRepeatArg(args); err != nil {
			return Wait, err
		}
		return Exit, nil
	case "s", "step":
		if err := k.checkRepeatArg(args); err != nil {
			return Wait, err
		}
		_, err := k.sys.StepUntilDebuggable()
		return Wait, err
	case "t", "trace":
		k.traceOnly = true
		_, err := k.sys.StepUntilDebuggable()
		return Continue, err
	case "setb", "setw", "setl":
		return Wait, k.cmdSet(args)
	default:
		return Wait, fmt.Errorf("debugger: unknown command %q", args[0])
	}
}

func (k *Kernel) checkRepeatArg(args []string) error {
	if len(args) <= 1 {
		return nil
	}
	count, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("debugger: unable to parse repeat count %q", args[1])
	}
	// The command runs once now; count-1 replays remain.
	if count > 1 {
		k.repeat = &repeatCommand{count: uint32(count) - 1, command: args[0]}
	}
	return nil
}

func (k *Kernel) cmdBreakpoint(args []string, add bool) error {
	if len(args) != 2 {
		return fmt.Errorf("debugger: usage: %s <[device:]addr>", args[0])
	}
	name, addr, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	dev, ok := k.resolveDevice(name)
	if !ok {
		return fmt.Errorf("debugger: no debuggable device %q", name)
	}
	dbg, ok := dev.AsDebuggable()
	if !ok {
		return fmt.Errorf("debugger: device %q is not debuggable", dev.Name)
	}
	if add {
		dbg.AddBreakpoint(addr)
		fmt.Fprintf(k.out, "breakpoint set for %s at %08x\n", dev.Name, addr)
	} else {
		dbg.RemoveBreakpoint(addr)
		fmt.Fprintf(k.out, "breakpoint removed for %s at %08x\n", dev.Name, addr)
	}
	return nil
}

func (k *Kernel) cmdWatch(args []string, add bool) error {
	if len(args) != 2 {
		return fmt.Errorf("debugger: usage: %s <addr>", args[0])
	}
	addr, err := strconv.ParseUint(args[1], 16, 32)
	if err != nil {
		return fmt.Errorf("debugger: unable to parse address %q", args[1])
	}
	if add {
		k.sys.Bus.Watch(uint32(addr), true, true)
	} else {
		k.sys.Bus.Unwatch(uint32(addr))
	}
	return nil
}

func (k *Kernel) cmdDump(args []string) error {
	addr := uint64(0)
	length := uint64(0x20)
	var err error
	if len(args) > 1 {
		addr, err = strconv.ParseUint(args[1], 16, 32)
		if err != nil {
			return fmt.Errorf("debugger: unable to parse address %q", args[1])
		}
	}
	if len(args) > 2 {
		length, err = strconv.ParseUint(args[2], 16, 32)
		if err != nil {
			return fmt.Errorf("debugger: unable to parse length %q", args[2])
		}
	}

	buf := make([]byte, length)
	if err := k.sys.Bus.Read(k.sys.Now(), uint32(addr), buf); err != nil {
		return err
	}
	for off := 0; off < len(buf); off += 16 {
		end := off + 16
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Fprintf(k.out, "%08x: % x\n", uint32(addr)+uint32(off), buf[off:end])
	}
	return nil
}

func (k *Kernel) cmdInspect(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("debugger: usage: inspect <device_name> [args...]")
	}
	dev, ok := k.device(args[1])
	if !ok {
		return fmt.Errorf("debugger: no device named %q", args[1])
	}
	insp, ok := dev.AsInspectable()
	if !ok {
		return fmt.Errorf("debugger: device %q is not inspectable", dev.Name)
	}
	fmt.Fprintln(k.out, insp.Inspect())
	return nil
}

func (k *Kernel) cmdDisassemble(args []string) error {
	addr := uint64(0)
	count := uint64(0x10)
	var err error
	if len(args) > 1 {
		addr, err = strconv.ParseUint(args[1], 16, 32)
		if err != nil {
			return fmt.Errorf("debugger: unable to parse address %q", args[1])
		}
	}
	if len(args) > 2 {
		count, err = strconv.ParseUint(args[2], 16, 32)
		if err != nil {
			return fmt.Errorf("debugger: unable to parse count %q", args[2])
		}
	}
	dev, ok := k.resolveDevice("")
	if !ok {
		return fmt.Errorf("debugger: no debuggable device")
	}
	dbg, ok := dev.AsDebuggable()
	if !ok {
		return fmt.Errorf("debugger: device %q is not debuggable", dev.Name)
	}
	for _, line := range dbg.Disassemble(uint32(addr), int(count)) {
		fmt.Fprintln(k.out, line)
	}
	return nil
}

func (k *Kernel) cmdRegisters(args []string) error {
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	dev, ok := k.resolveDevice(name)
	if !ok {
		return fmt.Errorf("debugger: no debuggable device %q", name)
	}
	dbg, ok := dev.AsDebuggable()
	if !ok {
		return fmt.Errorf("debugger: device %q is not debuggable", dev.Name)
	}
	for reg, val := range dbg.DebugRegisters() {
		fmt.Fprintf(k.out, "%s = %08x\n", reg, val)
	}
	return nil
}

func (k *Kernel) cmdSet(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("debugger: usage: %s <addr> <data>", args[0])
	}
	addr, err := strconv.ParseUint(args[1], 16, 32)
	if err != nil {
		return fmt.Errorf("debugger: unable to parse address %q", args[1])
	}
	data, err := strconv.ParseUint(args[2], 16, 32)
	if err != nil {
		return fmt.Errorf("debugger: unable to parse data %q", args[2])
	}

	now := k.sys.Now()
	switch args[0] {
	case "setb":
		return k.sys.Bus.WriteByte(now, uint32(addr), uint8(data))
	case "setw":
		return k.sys.Bus.WriteBEU16(now, uint32(addr), uint16(data))
	default: // setl
		return k.sys.Bus.WriteBEU32(now, uint32(addr), uint32(data))
	}
}

// device looks up a registered device by name.
func (k *Kernel) device(name string) (system.Device, bool) {
	for _, d := range k.sys.Devices() {
		if d.Name == name {
			return d, true
		}
	}
	return system.Device{}, false
}

// resolveDevice returns the named device, or — if name is empty — the
// first registered device that implements Debuggable, mirroring
// get_next_debuggable_device's "operate on the CPU by default" shorthand.
func (k *Kernel) resolveDevice(name string) (system.Device, bool) {
	if name != "" {
		return k.device(name)
	}
	for _, d := range k.sys.Devices() {
		if _, ok := d.AsDebuggable(); ok {
			return d, true
		}
	}
	return system.Device{}, false
}

// parseAddress splits an optional "device:addr" argument, defaulting to
// no device name (meaning "the next debuggable device") when there is
// no colon.
func parseAddress(arg string) (name string, addr uint32, err error) {
	addrStr := arg
	if idx := strings.IndexByte(arg, ':'); idx >= 0 {
		name = arg[:idx]
		addrStr = arg[idx+1:]
	}
	v, err := strconv.ParseUint(addrStr, 16, 32)
	if err != nil {
		return "", 0, fmt.Errorf("debugger: unable to parse address %q", addrStr)
	}
	return name, uint32(v), nil
}
