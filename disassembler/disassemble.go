// Package disassembler renders .um binaries as assembly listings the
// assembler can reparse. Disassembly is best-effort: unknown opcodes
// become comments, never errors.
package disassembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jriver03/um/isa"
)

// Disassemble decodes a raw binary image into a listing.
func Disassemble(code []byte) (string, error) {
	if len(code) == 0 {
		return "", errors.New(".um file is empty")
	}
	words, err := isa.BytesToWords(code)
	if err != nil {
		return "", err
	}
	return DisassembleWords(words), nil
}

// DisassembleWords renders a header comment and one instruction line
// per word.
func DisassembleWords(words []uint32) string {
	var out strings.Builder
	for pc, w := range words {
		writeInsn(&out, uint32(pc), w)
	}
	return out.String()
}

func writeInsn(out *strings.Builder, pc, w uint32) {
	in := isa.Decode(w)
	fmt.Fprintf(out, ";; [pc=%d word=0x%08x]\n", pc, w)

	switch in.Op {
	case isa.OpCmov, isa.OpAidx, isa.OpAupd, isa.OpAdd,
		isa.OpMul, isa.OpDiv, isa.OpNand:
		fmt.Fprintf(out, "%-8s r%d r%d r%d\n", isa.Name(in.Op), in.A, in.B, in.C)
	case isa.OpHalt:
		out.WriteString("halt\n")
	case isa.OpAlloc, isa.OpLoadProg:
		fmt.Fprintf(out, "%-8s r%d r%d\n", isa.Name(in.Op), in.B, in.C)
	case isa.OpDealloc, isa.OpOut, isa.OpIn:
		fmt.Fprintf(out, "%-8s r%d\n", isa.Name(in.Op), in.C)
	case isa.OpLoadImm:
		fmt.Fprintf(out, "%-8s r%d %d\n", isa.Name(in.Op), in.LA, in.Imm)
	default:
		fmt.Fprintf(out, ";; UNKNOWN op=%d (raw=0x%08x)\n", in.Op, w)
	}
}
