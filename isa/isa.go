// Package isa defines the Universal Machine instruction word: the opcode
// set, the two bit-field layouts, and the big-endian on-disk form shared
// by the assembler, the disassembler and the emulator.
package isa

import "fmt"

// Opcodes. 0..12 use the standard A/B/C layout, 13 the load-immediate
// layout.
const (
	OpCmov uint32 = iota
	OpAidx
	OpAupd
	OpAdd
	OpMul
	OpDiv
	OpNand
	OpHalt
	OpAlloc
	OpDealloc
	OpOut
	OpIn
	OpLoadProg
	OpLoadImm
	// OpCount is the number of defined opcodes.
	OpCount
)

// MaxImm is the largest immediate loadimm can carry (25 bits).
const MaxImm = 1<<25 - 1

var names = [OpCount]string{
	"cmov", "aidx", "aupd", "add", "mul", "div", "nand", "halt",
	"alloc", "dealloc", "out", "in", "loadprog", "loadimm",
}

// Name returns the mnemonic for an opcode, or "?" for undefined ones.
func Name(op uint32) string {
	if op >= OpCount {
		return "?"
	}
	return names[op]
}

// Instruction is one word decoded under both layouts. The caller picks
// the interpretation by Op: LA/Imm for loadimm, A/B/C otherwise.
type Instruction struct {
	Op uint32
	// Standard layout: bits 6..8, 3..5, 0..2.
	A, B, C uint32
	// Load-immediate layout: register in bits 25..27, value in 0..24.
	LA  uint32
	Imm uint32
}

// Decode extracts every field of a word. Bits 9..27 of the standard
// layout are ignored.
func Decode(w uint32) Instruction {
	return Instruction{
		Op:  w >> 28,
		A:   (w >> 6) & 7,
		B:   (w >> 3) & 7,
		C:   w & 7,
		LA:  (w >> 25) & 7,
		Imm: w & MaxImm,
	}
}

// EncodeABC packs an instruction in the standard layout. Valid for
// opcodes 0..12; register fields are masked to three bits.
func EncodeABC(op, a, b, c uint32) uint32 {
	return op<<28 | (a&7)<<6 | (b&7)<<3 | c&7
}

// EncodeLoadImm packs a load-immediate word.
func EncodeLoadImm(a, imm uint32) (uint32, error) {
	if a > 7 {
		return 0, fmt.Errorf("loadimm register out of range: %d", a)
	}
	if imm > MaxImm {
		return 0, fmt.Errorf("loadimm immediate too large (needs 25 bits): %d", imm)
	}
	return OpLoadImm<<28 | a<<25 | imm, nil
}
