package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/jriver03/um/isa"
)

// Step executes one cycle: bounds-check the PC, fetch from array 0,
// decode, dispatch. The PC advances unless loadprog or halt executed or
// the instruction trapped.
func (m *Machine) Step() error {
	if m.Trace.enabled() {
		m.Trace.checkLimit(m.PC)
	}

	if m.PC >= m.Pool.Len(0) {
		return TrapPCRange
	}
	w := m.Pool.arrays[0].data[m.PC]
	in := isa.Decode(w)

	if !m.Trace.enabled() {
		return m.exec(in)
	}

	m.Trace.instruction(m.PC, w, in, &m.Regs)
	before := m.Regs
	err := m.exec(in)
	m.Trace.deltas(before, m.Regs)
	return err
}

func (m *Machine) exec(in isa.Instruction) error {
	if in.Op == isa.OpLoadImm {
		m.Regs[in.LA] = in.Imm
		m.PC++
		return nil
	}

	a, b, c := in.A, in.B, in.C
	switch in.Op {
	case isa.OpCmov:
		if m.Regs[c] != 0 {
			m.Regs[a] = m.Regs[b]
		}

	case isa.OpAidx:
		v, err := m.Pool.Index(m.Regs[b], m.Regs[c])
		if err != nil {
			return err
		}
		m.Regs[a] = v

	case isa.OpAupd:
		if err := m.Pool.Amend(m.Regs[a], m.Regs[b], m.Regs[c]); err != nil {
			return err
		}

	case isa.OpAdd:
		m.Regs[a] = m.Regs[b] + m.Regs[c]

	case isa.OpMul:
		m.Regs[a] = m.Regs[b] * m.Regs[c]

	case isa.OpDiv:
		if m.Regs[c] == 0 {
			return TrapDivZero
		}
		m.Regs[a] = m.Regs[b] / m.Regs[c]

	case isa.OpNand:
		m.Regs[a] = ^(m.Regs[b] & m.Regs[c])

	case isa.OpHalt:
		m.state = Halted
		return nil

	case isa.OpAlloc:
		id := m.Pool.Allocate(m.Regs[c])
		if m.Trace.enabled() {
			m.Trace.alloc(id, m.Regs[c])
		}
		m.Regs[b] = id

	case isa.OpDealloc:
		if m.Trace.enabled() {
			m.Trace.dealloc(m.Regs[c])
		}
		if err := m.Pool.Abandon(m.Regs[c]); err != nil {
			return err
		}

	case isa.OpOut:
		v := m.Regs[c]
		if v > 255 {
			return TrapOutRange
		}
		if _, err := m.Out.Write([]byte{byte(v)}); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}

	case isa.OpIn:
		ch, err := m.In.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			m.Regs[c] = 0xFFFFFFFF
		case err != nil:
			return fmt.Errorf("read failed: %w", err)
		default:
			m.Regs[c] = uint32(ch)
		}

	case isa.OpLoadProg:
		// With r[B] = 0 this is a pure jump; array 0 is untouched.
		if id := m.Regs[b]; id != 0 {
			if err := m.Pool.ReplaceProgram(id); err != nil {
				return err
			}
		}
		m.PC = m.Regs[c]
		return nil

	default:
		return TrapBadOpcode
	}

	m.PC++
	return nil
}
