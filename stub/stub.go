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

package stub

import (
	"armdbgstub/bppool"
	"armdbgstub/curated"
	"armdbgstub/logger"
	"armdbgstub/packet"
	"armdbgstub/platform"
	"armdbgstub/stepplan"
)

const logTag = "stub"

// Signal numbers reported in the stop-reply's T packet. The protocol never
// distinguishes beyond abort-vs-undefined, so these are the only two values
// this module ever emits.
const (
	sigIll  = 4
	sigTrap = 5
)

// errPoolExhausted is logged when a step request cannot be armed because
// the breakpoint pool has no free descriptor left.
var errPoolExhausted = curated.Errorf("stub: breakpoint pool exhausted")

// errReentry is logged when a second exception is taken while the stub is
// already mid-flight servicing one.
var errReentry = curated.Errorf("stub: re-entered while already in the stub")

// Stub is the debug stub: the breakpoint pool, the guarded view of target
// memory the protocol commands operate on, and the platform capabilities
// and transport it drives from inside the exception handler.
type Stub struct {
	pool      *bppool.Pool
	mem       *GuardedMemory
	transport platform.Transport
	caps      platform.Capabilities
	log       *logger.Logger

	// retAddr is the address the target resumes at; it tracks register 15
	// across the protocol loop independently of the rest of the snapshot
	// so that a 'c'/'s' without a prior 'G' simply resumes where it
	// trapped.
	retAddr uint32
	thumb   bool

	irqsSaved      bool
	savedIRQs      uint32
	savedMasterIRQ bool

	// inStub guards against re-entrancy: set the moment steadyHandler
	// starts servicing a trap, cleared only once it is done. A second
	// exception taken while it is set (e.g. a fault while servicing the
	// host) is unrecoverable: the handler body must never run again
	// against state that is already mid-mutation.
	inStub bool

	// fatal is invoked in place of returning when inStub is already set on
	// entry. It must not return; the value set by New spins forever, since
	// recovery requires a reset. Tests substitute a non-spinning stand-in
	// to observe the path.
	fatal func()
}

// New returns a Stub ready for Init. raw is the target's byte-addressable
// memory; floor is the lowest address the protocol's memory commands are
// permitted to touch.
func New(caps platform.Capabilities, transport platform.Transport, raw RawMemory, floor uint32, log *logger.Logger) *Stub {
	return &Stub{
		pool:      bppool.NewPool(),
		mem:       NewGuardedMemory(raw, floor),
		transport: transport,
		caps:      caps,
		log:       log,
		fatal:     spin,
	}
}

// spin is the default fatal handler: it never returns, since recovery
// from re-entry requires a hardware reset.
func spin() {
	for {
	}
}

// Init installs the exception handler and brings up the transport. It
// must be called once, before the target can trap into the debugger.
func (s *Stub) Init(config interface{}) bool {
	s.caps.InstallExceptionHandler(s.firstRunHandler)
	return s.transport.Init(config)
}

// Halt lets the target proactively enter the debugger without waiting for
// a breakpoint or a genuine fault. It blocks until the host resumes the
// target.
func (s *Stub) Halt() {
	s.caps.TriggerBreak()
}

// firstRunHandler installs the steady-state handler before running it, so
// the steady-state path itself never has to branch on whether this is the
// first trap.
func (s *Stub) firstRunHandler() {
	s.caps.InstallExceptionHandler(s.steadyHandler)
	s.steadyHandler()
}

// steadyHandler is the exception handler proper: trap-entry bookkeeping,
// the stop-reply, the protocol loop, and resume bookkeeping, in that
// order.
func (s *Stub) steadyHandler() {
	if s.inStub {
		s.log.Log(logger.Allow, logTag, errReentry)
		s.fatal()
		return
	}
	s.inStub = true

	regs, dataAbort := s.caps.ExceptionState()

	s.retAddr = regs[platform.PC]
	s.thumb = regs.Thumb()

	s.pool.TrapEntry(s.mem, s.retAddr)

	packet.Send(s.transport, s.stopReply(regs, dataAbort))

	s.enableCommsIRQs()
	s.loop(&regs)
	s.restoreIRQState()

	s.caps.SetBankedRegisters(regs[platform.SP], regs[platform.LR], platform.Mode(regs[platform.CPSR]&0x1f))

	s.pool.InstallResume(s.mem)
	s.caps.InvalidateInstructionCache()
	s.caps.FlushDataCache()

	s.caps.SetExceptionState(regs, s.retAddr)

	s.inStub = false
}

// loop serves packets until a command resumes the target.
func (s *Stub) loop(regs *platform.RegisterFile) {
	for {
		payload := packet.Receive(s.transport)
		reply, sendReply, resume := s.dispatch(payload, regs)
		if sendReply {
			packet.Send(s.transport, reply)
		}
		if resume {
			return
		}
	}
}

// dispatch serves a single command payload against regs, s.retAddr and
// s.thumb, returning the reply to send (if any) and whether the target
// should now resume. It is the part of the handler that needs no hardware
// to exercise: every command is decided from regs/retAddr/thumb and
// s.mem/s.pool alone.
func (s *Stub) dispatch(payload []byte, regs *platform.RegisterFile) (reply []byte, sendReply bool, resume bool) {
	if len(payload) == 0 {
		return nil, true, false
	}

	switch payload[0] {
	case '?':
		return []byte("S10"), true, false

	case 'g':
		return s.readRegisters(regs), true, false

	case 'G':
		s.writeRegisters(payload[1:], regs)
		return []byte("OK"), true, false

	case 'm':
		return s.readMemory(payload[1:]), true, false

	case 'M':
		return s.writeMemory(payload[1:]), true, false

	case 'X':
		return s.writeMemoryBinary(payload[1:]), true, false

	case 's':
		return s.step(regs)

	case 'c':
		return nil, false, true

	case 'k':
		return nil, false, false

	default:
		return nil, true, false
	}
}

// stopReply builds the T-packet reported at trap entry: the signal, then
// nn:hhhhhhhh; triples for R0..R14, the resume address as register 15, and
// CPSR as register 25.
func (s *Stub) stopReply(regs platform.RegisterFile, dataAbort bool) []byte {
	signal := sigIll
	if dataAbort {
		signal = sigTrap
	}

	buf := make([]byte, 0, 256)
	buf = append(buf, 'T')
	buf = packet.HexEncode(buf, []byte{byte(signal)})

	for i := platform.R0; i <= platform.LR; i++ {
		buf = appendRegTriple(buf, i, regs[i])
	}
	buf = appendRegTriple(buf, 15, s.retAddr)
	buf = appendRegTriple(buf, 25, regs[platform.CPSR])

	return buf
}

func appendRegTriple(buf []byte, reg int, value uint32) []byte {
	buf = packet.HexEncode(buf, []byte{byte(reg)})
	buf = append(buf, ':')
	buf = packet.HexEncode(buf, leBytes(value))
	buf = append(buf, ';')
	return buf
}

// leBytes returns v's bytes least-significant first: the hex-register
// fields of the text protocol carry the register's contents in target
// memory order, and the target is little-endian.
func leBytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// readRegisters serves 'g': R0..R14 from regs, the tracked resume address
// as R15, 8 zeroed 96-bit FP placeholders, an FP status placeholder holding
// the fixed digits 01234567, then CPSR.
func (s *Stub) readRegisters(regs *platform.RegisterFile) []byte {
	buf := make([]byte, 0, 512)

	for i := platform.R0; i <= platform.LR; i++ {
		buf = packet.HexEncode(buf, leBytes(regs[i]))
	}
	buf = packet.HexEncode(buf, leBytes(s.retAddr))

	for i := 0; i < 8; i++ {
		for j := 0; j < 12*2; j++ {
			buf = append(buf, '0')
		}
	}
	buf = append(buf, "01234567"...)

	buf = packet.HexEncode(buf, leBytes(regs[platform.CPSR]))

	return buf
}

// writeRegisters serves 'G': R0..R14 and R15 (the resume address) are
// parsed back out of payload; the FP placeholders and CPSR that follow are
// accepted but not interpreted.
func (s *Stub) writeRegisters(payload []byte, regs *platform.RegisterFile) {
	pos := 0

	for i := platform.R0; i <= platform.LR; i++ {
		word, consumed, ok := packet.HexDecode(payload[pos:], 4)
		if !ok {
			return
		}
		pos += consumed
		regs[i] = leUint32(word)
	}

	word, consumed, ok := packet.HexDecode(payload[pos:], 4)
	if !ok {
		return
	}
	pos += consumed
	s.retAddr = leUint32(word)
}

// readMemory serves 'm addr,len': a hex dump of len bytes starting at
// addr, E01 if the addr,len structure itself doesn't parse, or E03 if any
// byte in the range falls below the guard floor.
func (s *Stub) readMemory(args []byte) []byte {
	addr, n := packet.HexToUint32(args)
	if n == 0 || n >= len(args) || args[n] != ',' {
		return []byte("E01")
	}
	length, n2 := packet.HexToUint32(args[n+1:])
	if n2 == 0 {
		return []byte("E01")
	}

	for i := uint32(0); i < length; i++ {
		if !s.mem.InRange(addr + i) {
			return []byte("E03")
		}
	}

	buf := make([]byte, 0, length*2)
	for i := uint32(0); i < length; i++ {
		buf = packet.HexEncode(buf, []byte{s.mem.ReadByte(addr + i)})
	}
	return buf
}

// writeMemory serves 'M addr,len:data': out-of-range bytes are silently
// dropped rather than failing the whole command, since a partial write is
// still useful to the host. A payload whose addr,len,data structure itself
// doesn't parse replies E02.
func (s *Stub) writeMemory(args []byte) []byte {
	addr, n := packet.HexToUint32(args)
	if n == 0 || n >= len(args) || args[n] != ',' {
		return []byte("E02")
	}
	rest := args[n+1:]

	length, n2 := packet.HexToUint32(rest)
	if n2 == 0 || n2 >= len(rest) || rest[n2] != ':' {
		return []byte("E02")
	}

	data, _, _ := packet.HexDecode(rest[n2+1:], int(length))
	s.noteBreakpointWrite(addr, data)
	for i, b := range data {
		s.mem.WriteByte(addr+uint32(i), b)
	}

	return []byte("OK")
}

// writeMemoryBinary serves 'X addr,len:data', identical to writeMemory but
// with the binary 0x7D-escape encoding the X command uses for its payload
// instead of hex. A payload whose addr,len,data structure itself doesn't
// parse replies E02, matching writeMemory.
func (s *Stub) writeMemoryBinary(args []byte) []byte {
	addr, n := packet.HexToUint32(args)
	if n == 0 || n >= len(args) || args[n] != ',' {
		return []byte("E02")
	}
	rest := args[n+1:]

	length, n2 := packet.HexToUint32(rest)
	if n2 == 0 || n2 >= len(rest) || rest[n2] != ':' {
		return []byte("E02")
	}

	data, _ := packet.EscapeDecode(rest[n2+1:], int(length))
	s.noteBreakpointWrite(addr, data)
	for i, b := range data {
		s.mem.WriteByte(addr+uint32(i), b)
	}

	return []byte("OK")
}

// noteBreakpointWrite recognises user-breakpoint lifecycle structurally:
// this protocol subset has no dedicated set/clear command, so breakpoints
// are inferred from the generic memory-write commands alone. Called before
// the byte loop that performs the write actually mutates memory, so
// SavedInstruction captures the real opcode the breakpoint replaces.
//
//   - A write of the trap opcode (ARM or Thumb width) to an address with no
//     active record there pulls a record from Free, remembers the opcode it
//     is about to overwrite, and adds it to Active.
//   - A write of anything other than the trap opcode to an address that
//     already has an active record lifts that breakpoint back to Free; the
//     host is taken to be restoring the original instruction or overwriting
//     it with something else entirely, either way ending the breakpoint's
//     life.
//   - A repeat write of the trap opcode over an already-armed address is a
//     no-op: the breakpoint stays exactly as it is.
func (s *Stub) noteBreakpointWrite(addr uint32, data []byte) {
	if idx, ok := s.pool.FindByAddress(s.pool.Active, addr); ok {
		width := 4
		if s.pool.Record(idx).Thumb {
			width = 2
		}
		if len(data) >= width && isTrapOpcode(data[:width], s.pool.Record(idx).Thumb) {
			return
		}
		if freed, ok := s.pool.RemoveByAddress(&s.pool.Active, addr); ok {
			s.pool.AddHead(&s.pool.Free, freed)
		}
		return
	}

	switch {
	case len(data) >= 4 && leUint32(data[:4]) == bppool.ArmTrapOpcode:
		if idx, ok := s.pool.Take(&s.pool.Active, addr, false); ok {
			s.pool.Record(idx).SavedInstruction = s.mem.ReadWord(addr)
			s.pool.AddHead(&s.pool.Active, idx)
		}

	case len(data) >= 2 && leUint16(data[:2]) == bppool.ThumbTrapOpcode:
		if idx, ok := s.pool.Take(&s.pool.Active, addr, true); ok {
			s.pool.Record(idx).SavedInstruction = uint32(s.mem.ReadHalfword(addr))
			s.pool.AddHead(&s.pool.Active, idx)
		}
	}
}

func isTrapOpcode(data []byte, thumb bool) bool {
	if thumb {
		return leUint16(data) == bppool.ThumbTrapOpcode
	}
	return leUint32(data) == bppool.ArmTrapOpcode
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// step serves 's': plan the address the current instruction leads to, arm
// a stepping breakpoint there, and resume. If the pool is exhausted the
// target is left paused with an S05 reply rather than resuming into an
// unguarded single step.
func (s *Stub) step(regs *platform.RegisterFile) (reply []byte, sendReply bool, resume bool) {
	plan := stepplan.Plan(s.retAddr, s.thumb, regs[platform.CPSR], *regs, s.mem)
	if plan.Uncertain {
		s.log.Log(logger.Allow, logTag, "step destination could not be determined, refusing")
		return []byte("S05"), true, false
	}

	if !s.pool.PrepareStep(plan.Next, plan.NextThumb) {
		s.log.Log(logger.Allow, logTag, errPoolExhausted)
		return []byte("S05"), true, false
	}

	return nil, false, true
}

// enableCommsIRQs saves the current interrupt-enable state and arms only
// the transport's required interrupt sources for the duration of the
// debugging session. A transport with no interrupt requirements
// (InterruptMask()==0) leaves interrupts untouched.
func (s *Stub) enableCommsIRQs() {
	mask := s.transport.InterruptMask()
	if mask == 0 {
		s.irqsSaved = false
		return
	}

	s.savedIRQs = s.caps.EnabledIRQs()
	s.savedMasterIRQ = s.caps.MasterIRQEnabled()
	s.irqsSaved = true

	s.caps.SetEnabledIRQs(mask)
	s.caps.SetMasterIRQEnabled(true)
	s.caps.EnableIRQs()
}

// restoreIRQState undoes enableCommsIRQs.
func (s *Stub) restoreIRQState() {
	if !s.irqsSaved {
		return
	}

	s.caps.DisableIRQs()
	s.caps.SetEnabledIRQs(s.savedIRQs)
	s.caps.SetMasterIRQEnabled(s.savedMasterIRQ)
}
