package vm

// array is one registry slot.
type array struct {
	data []uint32
	live bool
}

// Pool is the registry of UM arrays. Id 0 holds the running program and
// stays live from boot to halt. Abandoned ids are recycled LIFO, so a
// fresh id is either the most recently freed one or the next unused
// integer.
type Pool struct {
	arrays  []array
	freeIDs []uint32
}

// Boot installs the program as array 0 and clears everything else.
func (p *Pool) Boot(program []uint32) {
	p.arrays = append(p.arrays[:0], array{data: program, live: true})
	p.freeIDs = p.freeIDs[:0]
}

// Allocate attaches a fresh zero-initialized array of n words and
// returns its id. Never returns 0; a zero-length array is still live.
func (p *Pool) Allocate(n uint32) uint32 {
	var id uint32
	if k := len(p.freeIDs); k > 0 {
		id = p.freeIDs[k-1]
		p.freeIDs = p.freeIDs[:k-1]
	} else {
		id = uint32(len(p.arrays))
		p.arrays = append(p.arrays, array{})
	}
	p.arrays[id] = array{data: make([]uint32, n), live: true}
	return id
}

// Abandon releases the array with the given id and recycles the id.
func (p *Pool) Abandon(id uint32) error {
	if id == 0 || !p.Live(id) {
		return TrapBadDealloc
	}
	p.arrays[id] = array{}
	p.freeIDs = append(p.freeIDs, id)
	return nil
}

// Index reads one word from a live array.
func (p *Pool) Index(id, off uint32) (uint32, error) {
	if !p.Live(id) {
		return 0, TrapIndexDead
	}
	a := p.arrays[id]
	if uint64(off) >= uint64(len(a.data)) {
		return 0, TrapIndexOOB
	}
	return a.data[off], nil
}

// Amend writes one word into a live array.
func (p *Pool) Amend(id, off, val uint32) error {
	if !p.Live(id) {
		return TrapAmendDead
	}
	a := p.arrays[id]
	if uint64(off) >= uint64(len(a.data)) {
		return TrapAmendOOB
	}
	a.data[off] = val
	return nil
}

// ReplaceProgram swaps array 0 for an independent duplicate of the
// array at id. The source stays live.
func (p *Pool) ReplaceProgram(id uint32) error {
	if !p.Live(id) {
		return TrapLoadProgDead
	}
	src := p.arrays[id].data
	dup := make([]uint32, len(src))
	copy(dup, src)
	p.arrays[0] = array{data: dup, live: true}
	return nil
}

// Live reports whether id names a live array.
func (p *Pool) Live(id uint32) bool {
	return id < uint32(len(p.arrays)) && p.arrays[id].live
}

// Len returns the length of the array at id, or 0 if it is not live.
func (p *Pool) Len(id uint32) uint32 {
	if !p.Live(id) {
		return 0
	}
	return uint32(len(p.arrays[id].data))
}

// Release drops every live array including the program.
func (p *Pool) Release() {
	p.arrays = nil
	p.freeIDs = nil
}
