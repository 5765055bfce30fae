package vm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jriver03/um/vm"
)

func bootPool(words ...uint32) *vm.Pool {
	p := &vm.Pool{}
	p.Boot(words)
	return p
}

func TestBootInstallsProgram(t *testing.T) {
	p := bootPool(1, 2, 3)
	assert.True(t, p.Live(0))
	assert.Equal(t, uint32(3), p.Len(0))

	v, err := p.Index(0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v)
}

func TestAllocateIssuesFreshIDs(t *testing.T) {
	p := bootPool(0)
	assert.Equal(t, uint32(1), p.Allocate(4))
	assert.Equal(t, uint32(2), p.Allocate(4))
	assert.Equal(t, uint32(3), p.Allocate(4))
}

func TestAllocateZeroInitializes(t *testing.T) {
	p := bootPool(0)
	id := p.Allocate(3)
	for off := uint32(0); off < 3; off++ {
		v, err := p.Index(id, off)
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestIDReuseIsLIFO(t *testing.T) {
	p := bootPool(0)
	a := p.Allocate(1) // 1
	b := p.Allocate(1) // 2
	require.NoError(t, p.Abandon(a))
	require.NoError(t, p.Abandon(b))

	// Most recently freed first.
	assert.Equal(t, b, p.Allocate(1))
	assert.Equal(t, a, p.Allocate(1))
	assert.Equal(t, uint32(3), p.Allocate(1))
}

func TestReusedIDIsFreshArray(t *testing.T) {
	p := bootPool(0)
	id := p.Allocate(2)
	require.NoError(t, p.Amend(id, 0, 99))
	require.NoError(t, p.Abandon(id))

	again := p.Allocate(2)
	require.Equal(t, id, again)
	v, err := p.Index(again, 0)
	require.NoError(t, err)
	assert.Zero(t, v, "reused id must designate a fresh zeroed array")
}

func TestZeroLengthAllocation(t *testing.T) {
	p := bootPool(0)
	id := p.Allocate(0)
	assert.True(t, p.Live(id))
	assert.Zero(t, p.Len(id))

	_, err := p.Index(id, 0)
	assert.ErrorIs(t, err, vm.TrapIndexOOB)

	require.NoError(t, p.Abandon(id))
}

func TestAbandonErrors(t *testing.T) {
	p := bootPool(0)
	assert.ErrorIs(t, p.Abandon(0), vm.TrapBadDealloc)
	assert.ErrorIs(t, p.Abandon(7), vm.TrapBadDealloc)

	id := p.Allocate(1)
	require.NoError(t, p.Abandon(id))
	assert.ErrorIs(t, p.Abandon(id), vm.TrapBadDealloc)
}

func TestIndexAmendChecks(t *testing.T) {
	p := bootPool(0)
	id := p.Allocate(2)

	require.NoError(t, p.Amend(id, 1, 42))
	v, err := p.Index(id, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	_, err = p.Index(id, 2)
	assert.ErrorIs(t, err, vm.TrapIndexOOB)
	assert.ErrorIs(t, p.Amend(id, 2, 0), vm.TrapAmendOOB)

	_, err = p.Index(99, 0)
	assert.ErrorIs(t, err, vm.TrapIndexDead)
	assert.ErrorIs(t, p.Amend(99, 0, 0), vm.TrapAmendDead)
}

func TestReplaceProgram(t *testing.T) {
	p := bootPool(7, 7, 7)
	id := p.Allocate(2)
	require.NoError(t, p.Amend(id, 0, 0x70000000))

	require.NoError(t, p.ReplaceProgram(id))
	assert.Equal(t, uint32(2), p.Len(0))

	v, err := p.Index(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x70000000), v)

	// The source stays live and independent of the new array 0.
	assert.True(t, p.Live(id))
	require.NoError(t, p.Amend(id, 0, 1))
	v, err = p.Index(0, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x70000000), v)
}

func TestReplaceProgramDeadID(t *testing.T) {
	p := bootPool(0)
	assert.ErrorIs(t, p.ReplaceProgram(5), vm.TrapLoadProgDead)
}

func TestReplaceProgramZeroLength(t *testing.T) {
	p := bootPool(0)
	id := p.Allocate(0)
	require.NoError(t, p.ReplaceProgram(id))
	assert.Zero(t, p.Len(0))
	assert.True(t, p.Live(0))
}

func TestRelease(t *testing.T) {
	p := bootPool(1, 2)
	p.Allocate(5)
	p.Release()
	assert.False(t, p.Live(0))
	assert.False(t, p.Live(1))
}
