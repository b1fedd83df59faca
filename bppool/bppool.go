// This file is part of armdbgstub.
//
// armdbgstub is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// armdbgstub is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with armdbgstub.  If not, see <https://www.gnu.org/licenses/>.

package bppool

// ArmTrapOpcode is the 32-bit ARM breakpoint encoding. Architecturally
// defined; must not be changed.
const ArmTrapOpcode uint32 = 0xe1200070

// ThumbTrapOpcode is the 16-bit Thumb breakpoint encoding. Architecturally
// defined; must not be changed.
const ThumbTrapOpcode uint16 = 0xbe00

// MaxBreakpoints is the size of the backing arena, including the
// descriptors consumed by single-stepping.
const MaxBreakpoints = 32

// nilIndex marks an untethered link or an empty list head.
const nilIndex = -1

// Memory is the narrow read/write capability the breakpoint engine needs to
// plant and lift trap opcodes.
type Memory interface {
	ReadWord(addr uint32) uint32
	WriteWord(addr uint32, val uint32)
	ReadHalfword(addr uint32) uint16
	WriteHalfword(addr uint32, val uint16)
}

// Record is one breakpoint descriptor. A record is armed when its address
// currently holds the trap opcode and SavedInstruction holds the original;
// it is parked when its address holds the original opcode. A record
// belongs to at most one list at a time; next is nilIndex when detached.
type Record struct {
	next int

	Address          uint32
	Thumb            bool
	SavedInstruction uint32
}

// initDescr resets addr/thumb/link and clears the saved instruction, the
// state every record is returned to before being handed out again.
func (r *Record) initDescr(addr uint32, thumb bool) {
	r.next = nilIndex
	r.Address = addr
	r.Thumb = thumb
	r.SavedInstruction = 0
}

// Pool is the arena of MaxBreakpoints records plus the four list heads that
// partition it: Free, Active, Stepping, Disabled. Each head is an index
// into records, or nilIndex for an empty list.
type Pool struct {
	records [MaxBreakpoints]Record

	Free     int
	Active   int
	Stepping int
	Disabled int
}

// NewPool returns a pool with every record threaded onto Free and the
// other three lists empty.
func NewPool() *Pool {
	p := &Pool{Active: nilIndex, Stepping: nilIndex, Disabled: nilIndex}

	for i := range p.records {
		p.records[i].next = nilIndex
		if i > 0 {
			p.records[i-1].next = i
		}
	}
	p.Free = 0

	return p
}

// Record returns a pointer to the record at idx, valid only while idx
// remains on a list this Pool manages.
func (p *Pool) Record(idx int) *Record {
	return &p.records[idx]
}

// AddHead prepends idx to the list whose head is *list. O(1).
func (p *Pool) AddHead(list *int, idx int) {
	p.records[idx].next = *list
	*list = idx
}

// RemoveHead detaches and returns the head of *list, or (nilIndex, false)
// if the list is empty. O(1).
func (p *Pool) RemoveHead(list *int) (int, bool) {
	head := *list
	if head == nilIndex {
		return nilIndex, false
	}

	*list = p.records[head].next
	p.records[head].next = nilIndex
	return head, true
}

// FindByAddress reports whether list contains a record at addr, without
// detaching it. Used to recognise a repeat write of the trap opcode over an
// already-armed address as a no-op rather than a fresh insertion.
func (p *Pool) FindByAddress(list int, addr uint32) (idx int, ok bool) {
	for cur := list; cur != nilIndex; cur = p.records[cur].next {
		if p.records[cur].Address == addr {
			return cur, true
		}
	}
	return nilIndex, false
}

// RemoveByAddress detaches and returns the first record in *list whose
// Address equals addr, or (nilIndex, false) if none matches. O(n).
func (p *Pool) RemoveByAddress(list *int, addr uint32) (int, bool) {
	prev := nilIndex
	cur := *list

	for cur != nilIndex {
		if p.records[cur].Address == addr {
			next := p.records[cur].next
			if prev == nilIndex {
				*list = next
			} else {
				p.records[prev].next = next
			}
			p.records[cur].next = nilIndex
			return cur, true
		}
		prev = cur
		cur = p.records[cur].next
	}

	return nilIndex, false
}

// Concat appends src to the tail of *dst and empties src. O(len(*dst)).
func (p *Pool) Concat(dst *int, src *int) {
	if *src == nilIndex {
		return
	}
	if *dst == nilIndex {
		*dst = *src
		*src = nilIndex
		return
	}

	tail := *dst
	for p.records[tail].next != nilIndex {
		tail = p.records[tail].next
	}
	p.records[tail].next = *src
	*src = nilIndex
}

// Take removes and initializes a record for (addr, thumb): it reuses an
// existing record at addr already on *list if one exists (so a second step
// to the same address doesn't waste a free descriptor), otherwise it pulls
// one from Free. Returns (nilIndex, false) when neither source has one.
func (p *Pool) Take(list *int, addr uint32, thumb bool) (int, bool) {
	if idx, ok := p.RemoveByAddress(list, addr); ok {
		p.records[idx].initDescr(addr, thumb)
		return idx, true
	}
	if idx, ok := p.RemoveHead(&p.Free); ok {
		p.records[idx].initDescr(addr, thumb)
		return idx, true
	}
	return nilIndex, false
}

// InstallAll plants the trap opcode at every record's address in list,
// saving the opcode it replaces. Must run after RemoveAll of the same list
// and before resuming the target.
func (p *Pool) InstallAll(mem Memory, list int) {
	for idx := list; idx != nilIndex; idx = p.records[idx].next {
		r := &p.records[idx]
		if r.Thumb {
			r.SavedInstruction = uint32(mem.ReadHalfword(r.Address))
			mem.WriteHalfword(r.Address, ThumbTrapOpcode)
		} else {
			r.SavedInstruction = mem.ReadWord(r.Address)
			mem.WriteWord(r.Address, ArmTrapOpcode)
		}
	}
}

// RemoveAll writes each record's SavedInstruction back to its address,
// undoing InstallAll. Must run before any host memory command is served.
func (p *Pool) RemoveAll(mem Memory, list int) {
	for idx := list; idx != nilIndex; idx = p.records[idx].next {
		r := &p.records[idx]
		if r.Thumb {
			mem.WriteHalfword(r.Address, uint16(r.SavedInstruction))
		} else {
			mem.WriteWord(r.Address, r.SavedInstruction)
		}
	}
}

// TrapEntry runs the list bookkeeping a trap entry performs before the
// protocol loop starts: lift every active and stepping breakpoint from
// memory, restore any temporarily disabled breakpoints to active, and
// retire the stepping record at retAddr (if any) back to Free since its job
// is done.
func (p *Pool) TrapEntry(mem Memory, retAddr uint32) {
	p.RemoveAll(mem, p.Active)
	p.RemoveAll(mem, p.Stepping)

	p.Concat(&p.Active, &p.Disabled)

	if idx, ok := p.RemoveByAddress(&p.Stepping, retAddr); ok {
		p.AddHead(&p.Free, idx)
	}
}

// PrepareStep arms a stepping breakpoint at stepAddr (reusing an existing
// stepping record there, or taking one from Free), and if stepAddr
// coincides with an active user breakpoint, moves that breakpoint to
// Disabled so the two don't collide on the same trap. It reports false if
// the free pool was exhausted.
func (p *Pool) PrepareStep(stepAddr uint32, thumb bool) bool {
	idx, ok := p.Take(&p.Stepping, stepAddr, thumb)
	if !ok {
		return false
	}
	p.AddHead(&p.Stepping, idx)

	if idx, ok := p.RemoveByAddress(&p.Active, stepAddr); ok {
		p.AddHead(&p.Disabled, idx)
	}

	return true
}

// InstallResume plants the trap opcode for every active and stepping
// breakpoint ahead of resuming the target. The caller must flush the
// instruction cache and data cache after this call and before the
// return-from-exception.
func (p *Pool) InstallResume(mem Memory) {
	p.InstallAll(mem, p.Active)
	p.InstallAll(mem, p.Stepping)
}
