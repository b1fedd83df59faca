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

package bppool_test

import (
	"testing"

	"armdbgstub/bppool"
	"armdbgstub/test"
)

type fakeMem struct {
	words     map[uint32]uint32
	halfwords map[uint32]uint16
}

func newFakeMem() *fakeMem {
	return &fakeMem{words: map[uint32]uint32{}, halfwords: map[uint32]uint16{}}
}

func (m *fakeMem) ReadWord(addr uint32) uint32         { return m.words[addr] }
func (m *fakeMem) WriteWord(addr uint32, val uint32)   { m.words[addr] = val }
func (m *fakeMem) ReadHalfword(addr uint32) uint16     { return m.halfwords[addr] }
func (m *fakeMem) WriteHalfword(addr uint32, val uint16) { m.halfwords[addr] = val }

func TestNewPoolChainsFreeList(t *testing.T) {
	p := bppool.NewPool()

	count := 0
	for idx, ok := p.RemoveHead(&p.Free); ok; idx, ok = p.RemoveHead(&p.Free) {
		_ = idx
		count++
	}
	test.ExpectEquality(t, count, bppool.MaxBreakpoints)
}

func TestInstallAndRemoveRoundTrip(t *testing.T) {
	p := bppool.NewPool()
	mem := newFakeMem()
	mem.words[0x02000100] = 0xe1a00000 // original MOV R0,R0

	idx, ok := p.Take(&p.Active, 0x02000100, false)
	test.ExpectSuccess(t, ok)
	p.AddHead(&p.Active, idx)

	p.InstallAll(mem, p.Active)
	test.ExpectEquality(t, mem.words[0x02000100], bppool.ArmTrapOpcode)

	p.RemoveAll(mem, p.Active)
	test.ExpectEquality(t, mem.words[0x02000100], uint32(0xe1a00000))
}

func TestThumbInstallUsesHalfword(t *testing.T) {
	p := bppool.NewPool()
	mem := newFakeMem()
	mem.halfwords[0x02000200] = 0x4600 // original MOV R0,R0 (thumb)

	idx, ok := p.Take(&p.Active, 0x02000200, true)
	test.ExpectSuccess(t, ok)
	p.AddHead(&p.Active, idx)

	p.InstallAll(mem, p.Active)
	test.ExpectEquality(t, mem.halfwords[0x02000200], bppool.ThumbTrapOpcode)

	p.RemoveAll(mem, p.Active)
	test.ExpectEquality(t, mem.halfwords[0x02000200], uint16(0x4600))
}

func countList(p *bppool.Pool, head int) int {
	var popped []int
	for i, ok := p.RemoveHead(&head); ok; i, ok = p.RemoveHead(&head) {
		popped = append(popped, i)
	}
	for i := len(popped) - 1; i >= 0; i-- {
		p.AddHead(&head, popped[i])
	}
	return len(popped)
}

func TestTrapEntryRetiresMatchingStep(t *testing.T) {
	p := bppool.NewPool()
	mem := newFakeMem()

	freeBefore := countList(p, p.Free)

	idx, ok := p.Take(&p.Stepping, 0x02000300, false)
	test.ExpectSuccess(t, ok)
	p.AddHead(&p.Stepping, idx)
	p.InstallAll(mem, p.Stepping)

	test.ExpectEquality(t, countList(p, p.Free), freeBefore-1)

	p.TrapEntry(mem, 0x02000300)

	test.ExpectEquality(t, p.Stepping, -1)
	test.ExpectEquality(t, countList(p, p.Free), freeBefore)
}

func TestTrapEntryReenablesDisabled(t *testing.T) {
	p := bppool.NewPool()
	mem := newFakeMem()

	idx, ok := p.Take(&p.Disabled, 0x02000400, false)
	test.ExpectSuccess(t, ok)
	p.AddHead(&p.Disabled, idx)

	p.TrapEntry(mem, 0x0)

	test.ExpectEquality(t, p.Disabled, -1)
	found, ok := p.RemoveByAddress(&p.Active, 0x02000400)
	test.ExpectSuccess(t, ok)
	_ = found
}

func TestPrepareStepDisablesCollidingActive(t *testing.T) {
	p := bppool.NewPool()

	activeIdx, ok := p.Take(&p.Active, 0x02000500, false)
	test.ExpectSuccess(t, ok)
	p.AddHead(&p.Active, activeIdx)

	test.ExpectSuccess(t, p.PrepareStep(0x02000500, false))

	_, stillActive := p.RemoveByAddress(&p.Active, 0x02000500)
	test.ExpectEquality(t, stillActive, false)

	_, disabled := p.RemoveByAddress(&p.Disabled, 0x02000500)
	test.ExpectEquality(t, disabled, true)
}

func TestPrepareStepArmsTheSteppingList(t *testing.T) {
	p := bppool.NewPool()
	mem := newFakeMem()
	mem.words[0x02000600] = 0xe1a00000 // original MOV R0,R0

	test.ExpectSuccess(t, p.PrepareStep(0x02000600, false))

	// The record PrepareStep took from Free must actually be linked onto
	// Stepping, not merely detached from Free and discarded.
	idx, ok := p.FindByAddress(p.Stepping, 0x02000600)
	test.ExpectSuccess(t, ok)

	p.InstallAll(mem, p.Stepping)
	test.ExpectEquality(t, mem.words[0x02000600], bppool.ArmTrapOpcode)
	_ = idx
}

func TestPoolExhaustion(t *testing.T) {
	p := bppool.NewPool()

	for i := 0; i < bppool.MaxBreakpoints; i++ {
		idx, ok := p.Take(&p.Active, uint32(0x02000000+i*4), false)
		test.ExpectSuccess(t, ok)
		p.AddHead(&p.Active, idx)
	}

	test.ExpectEquality(t, p.PrepareStep(0x03000000, false), false)
}
