// Package assembler translates UM assembly source into big-endian .um
// binaries in two passes: label collection, then emission.
package assembler

import (
	"fmt"
	"strings"

	"github.com/jriver03/um/isa"
)

// Assembler holds the state for one assembly run.
type Assembler struct {
	filename string
	labels   map[string]uint32
}

// New creates an Assembler. The filename is only used in error
// messages.
func New(filename string) *Assembler {
	return &Assembler{
		filename: filename,
		labels:   make(map[string]uint32),
	}
}

// Assemble runs both passes over src and returns the binary image.
func (asm *Assembler) Assemble(src string) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	if err := asm.collectLabels(lines); err != nil {
		return nil, err
	}

	var words []uint32
	for i, line := range lines {
		s := stripComment(line)
		if s == "" {
			continue
		}
		if _, ok := parseLabelLine(s); ok {
			continue
		}
		w, err := asm.assembleLine(s, i+1)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return isa.WordsToBytes(words), nil
}

// collectLabels records each label against the PC of the next emitted
// instruction. Labels do not consume a PC slot.
func (asm *Assembler) collectLabels(lines []string) error {
	pc := uint32(0)
	for i, line := range lines {
		s := stripComment(line)
		if s == "" {
			continue
		}
		name, ok := parseLabelLine(s)
		if !ok {
			pc++
			continue
		}
		if _, dup := asm.labels[name]; dup {
			return asm.errf(i+1, "duplicate label '%s'", name)
		}
		asm.labels[name] = pc
	}
	return nil
}

// opSpec describes a mnemonic's opcode and operand form.
type opSpec struct {
	op   uint32
	form form
}

type form int

const (
	formABC  form = iota // A B C, three registers
	formBC               // B C, A implicitly 0
	formC                // C, A and B implicitly 0
	formNone             // no operands
	formImm              // A IMM, load-immediate layout
)

var mnemonics = map[string]opSpec{
	"cmov":     {isa.OpCmov, formABC},
	"aidx":     {isa.OpAidx, formABC},
	"aupd":     {isa.OpAupd, formABC},
	"add":      {isa.OpAdd, formABC},
	"mul":      {isa.OpMul, formABC},
	"div":      {isa.OpDiv, formABC},
	"nand":     {isa.OpNand, formABC},
	"halt":     {isa.OpHalt, formNone},
	"alloc":    {isa.OpAlloc, formBC},
	"dealloc":  {isa.OpDealloc, formC},
	"out":      {isa.OpOut, formC},
	"in":       {isa.OpIn, formC},
	"loadprog": {isa.OpLoadProg, formBC},
	"loadimm":  {isa.OpLoadImm, formImm},
}

// assembleLine encodes one instruction line into a word.
func (asm *Assembler) assembleLine(s string, lineno int) (uint32, error) {
	tokens := tokenize(s)
	mn := tokens[0]
	spec, ok := mnemonics[mn]
	if !ok {
		return 0, asm.errf(lineno, "unknown mnemonic '%s'", mn)
	}
	ops := tokens[1:]

	regs := func(want int) ([]uint32, error) {
		if len(ops) != want {
			return nil, asm.errf(lineno, "%s syntax: %s %s", mn, mn, operandHint(spec.form))
		}
		out := make([]uint32, want)
		for i, op := range ops {
			r, err := parseReg(op)
			if err != nil {
				return nil, asm.errf(lineno, "%v", err)
			}
			out[i] = r
		}
		return out, nil
	}

	switch spec.form {
	case formABC:
		r, err := regs(3)
		if err != nil {
			return 0, err
		}
		return isa.EncodeABC(spec.op, r[0], r[1], r[2]), nil

	case formBC:
		r, err := regs(2)
		if err != nil {
			return 0, err
		}
		return isa.EncodeABC(spec.op, 0, r[0], r[1]), nil

	case formC:
		r, err := regs(1)
		if err != nil {
			return 0, err
		}
		return isa.EncodeABC(spec.op, 0, 0, r[0]), nil

	case formNone:
		if len(ops) != 0 {
			return 0, asm.errf(lineno, "%s takes no operands", mn)
		}
		return isa.EncodeABC(spec.op, 0, 0, 0), nil

	default: // formImm
		if len(ops) != 2 {
			return 0, asm.errf(lineno, "loadimm syntax: loadimm A IMM")
		}
		a, err := parseReg(ops[0])
		if err != nil {
			return 0, asm.errf(lineno, "%v", err)
		}
		imm, err := asm.parseImm(ops[1])
		if err != nil {
			return 0, asm.errf(lineno, "%v", err)
		}
		w, err := isa.EncodeLoadImm(a, imm)
		if err != nil {
			return 0, asm.errf(lineno, "%v", err)
		}
		return w, nil
	}
}

func operandHint(f form) string {
	switch f {
	case formABC:
		return "A B C (regs 0..7)"
	case formBC:
		return "B C"
	default:
		return "C"
	}
}

func (asm *Assembler) errf(line int, format string, args ...any) error {
	prefix := fmt.Sprintf("%s:%d: ", asm.filename, line)
	return fmt.Errorf(prefix+format, args...)
}
