// Package vm executes Universal Machine binaries: a register file, a
// pool of integer arrays and a flat fetch/decode/execute loop.
package vm

import (
	"bufio"
	"io"
	"os"
)

// State of a machine. Halted and Failed are terminal.
type State int

const (
	Running State = iota
	Halted
	Failed
)

// Machine is one UM instance. Regs, PC and Pool are exposed so shells
// and tests can inspect them between steps.
type Machine struct {
	// Regs r0..r7, zeroed at boot.
	Regs [8]uint32
	// PC is the offset into array 0 of the next instruction.
	PC uint32
	// Pool owns every live array. Array 0 is the program.
	Pool Pool

	// In supplies bytes for opcode 11. Defaults to buffered stdin.
	In io.ByteReader
	// Out receives bytes from opcode 10. Defaults to stdout.
	Out io.Writer
	// Trace, when set, receives a per-cycle account of execution.
	Trace *Tracer

	state State
}

// New boots a machine with the given program installed as array 0.
func New(program []uint32) *Machine {
	m := &Machine{
		In:  bufio.NewReader(os.Stdin),
		Out: os.Stdout,
	}
	m.Pool.Boot(program)
	return m
}

// State reports the machine's current state.
func (m *Machine) State() State { return m.state }

// Run drives the loop until the program halts or traps. Returns nil on
// halt and the trap (or host I/O error) otherwise. Pool storage is
// released on either exit path.
func (m *Machine) Run() error {
	m.state = Running
	for m.state == Running {
		if err := m.Step(); err != nil {
			m.state = Failed
			m.Pool.Release()
			return err
		}
	}
	m.Pool.Release()
	return nil
}
