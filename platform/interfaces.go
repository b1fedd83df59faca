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

package platform

// Transport is the byte-oriented capability set consumed from the
// serial/SPI/UART driver. The stub never depends on any particular
// transport implementation, only on this interface.
type Transport interface {
	// Init prepares the transport, using an opaque, transport-specific
	// configuration value. Returns false on failure.
	Init(config interface{}) bool

	// ReadByte is a non-blocking read: it returns true iff a byte was
	// produced, in which case it is written to *out.
	ReadByte(out *byte) bool

	// WriteByte writes a single byte.
	WriteByte(b byte)

	// WriteData writes buf in one call.
	WriteData(buf []byte)

	// Poll is driven between ReadByte calls while waiting for a byte to
	// become available. A transport that never needs polling implements
	// it as a no-op.
	Poll()

	// InterruptMask returns the bitmask of platform IRQ sources the
	// transport needs routed to it while the stub has control. A return
	// value of zero means interrupts stay disabled for the duration of
	// the trap.
	InterruptMask() uint32
}

// Mode names the banked-register mode written to by SetBankedRegisters,
// matching the CPSR mode field.
type Mode uint32

// Capabilities is the platform capability set: cache maintenance, CPSR
// introspection and interrupt control, banked-register writes, and
// exception-handler installation. Every operation here is invoked as an
// opaque primitive; none of its internals are modeled by this module.
type Capabilities interface {
	// InvalidateInstructionCache invalidates the entire instruction cache.
	InvalidateInstructionCache()

	// FlushDataCache cleans and flushes the entire data cache.
	FlushDataCache()

	// EnableIRQs/DisableIRQs manipulate the CPSR interrupt mask bits.
	EnableIRQs()
	DisableIRQs()

	// ReadSPSR/ReadCPSR return the saved and current program status
	// registers.
	ReadSPSR() uint32
	ReadCPSR() uint32

	// SetBankedRegisters writes R13 (SP) and R14 (LR) for the given
	// banked mode, used when resuming the program after the host has
	// possibly changed those registers.
	SetBankedRegisters(r13, r14 uint32, mode Mode)

	// InstallExceptionHandler installs handler as the CPU's
	// undefined-instruction/prefetch-and-data-abort exception handler,
	// returning the previously installed handler.
	InstallExceptionHandler(handler func()) (previous func())

	// ExceptionState returns the register snapshot the trampoline captured
	// for the trap currently being handled — R0..R14 and PC already
	// adjusted to the correct resume address, CPSR from the exception
	// mode's SPSR, as described on RegisterFile — together with whether
	// the trap was a data/prefetch abort (true) rather than an
	// undefined-instruction trap (false). It is only meaningful to call
	// from inside a handler installed by InstallExceptionHandler.
	ExceptionState() (regs RegisterFile, dataAbort bool)

	// SetExceptionState hands the register snapshot, possibly modified by
	// the host in the meantime, and the address to resume at back to the
	// exception trampoline. When the handler returns, the trampoline
	// restores R0..R12 from the snapshot and branches to the resume
	// address, completing the return-from-exception sequence. The
	// counterpart of ExceptionState; like it, only meaningful to call
	// from inside a handler installed by InstallExceptionHandler.
	SetExceptionState(regs RegisterFile, retAddr uint32)

	// TriggerBreak executes the target's own trap instruction, entering
	// the installed exception handler synchronously. It returns only once
	// the ensuing trap has run its course and the host has resumed the
	// target.
	TriggerBreak()

	// EnabledIRQs/SetEnabledIRQs and MasterIRQEnabled/SetMasterIRQEnabled
	// read and write the interrupt-enable and master-enable registers, so
	// the stub can save and restore them across a debugging session.
	EnabledIRQs() uint32
	SetEnabledIRQs(mask uint32)
	MasterIRQEnabled() bool
	SetMasterIRQEnabled(enabled bool)
}
