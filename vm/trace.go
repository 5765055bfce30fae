package vm

import (
	"go.uber.org/zap"

	"github.com/jriver03/um/isa"
)

// Tracer writes a per-cycle account of execution: the decoded
// instruction with its register operands before each step, register
// deltas after, and the ids issued and released by alloc/dealloc.
type Tracer struct {
	log   *zap.SugaredLogger
	limit uint32
	off   bool
}

// NewTracer wraps a logger. A nonzero limit disables tracing once the
// PC reaches it (the UM_TRACE_LIMIT contract).
func NewTracer(log *zap.Logger, limit uint32) *Tracer {
	return &Tracer{log: log.Sugar(), limit: limit}
}

func (t *Tracer) enabled() bool { return t != nil && !t.off }

func (t *Tracer) checkLimit(pc uint32) {
	if t.limit == 0 || pc < t.limit {
		return
	}
	t.log.Infof("trace disabled after pc=%d", pc)
	t.off = true
}

func (t *Tracer) instruction(pc, w uint32, in isa.Instruction, regs *[8]uint32) {
	if in.Op == isa.OpLoadImm {
		t.log.Infof("[pc=%d] 0x%08x %-8s A=%d imm=%d", pc, w, isa.Name(in.Op), in.LA, in.Imm)
		return
	}
	t.log.Infof("[pc=%d] 0x%08x %-8s A=%d B=%d C=%d | rA=%d rB=%d rC=%d",
		pc, w, isa.Name(in.Op), in.A, in.B, in.C,
		regs[in.A], regs[in.B], regs[in.C])
}

func (t *Tracer) deltas(before, after [8]uint32) {
	for i := range after {
		if before[i] != after[i] {
			t.log.Infof("   r%d: %d -> %d", i, before[i], after[i])
		}
	}
}

func (t *Tracer) alloc(id, n uint32) {
	t.log.Infof("    alloc -> id=%d, len=%d", id, n)
}

func (t *Tracer) dealloc(id uint32) {
	t.log.Infof("    dealloc id=%d", id)
}
