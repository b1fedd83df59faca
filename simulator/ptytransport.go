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

package simulator

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"armdbgstub/curated"
)

// errPtyInit is returned by NewSession when the pty pair could not be
// opened. PtyTransport.Init reports only success or failure, so this
// sentinel carries no detail of the underlying cause.
var errPtyInit = curated.Errorf("simulator: pty transport failed to initialise")

// openPTY opens a fresh pseudo-terminal pair on Linux: /dev/ptmx gives the
// master end, then TIOCSPTLCK/TIOCGPTN unlock it and recover the slave's
// number so /dev/pts/N can be opened directly, the same POSIX dance a real
// serial-over-pty bridge performs.
func openPTY() (master, slave *os.File, err error) {
	master, err = os.OpenFile("/dev/ptmx", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, curated.Errorf("simulator: opening pty master: %w", err)
	}

	if err := unix.IoctlSetPointerInt(int(master.Fd()), unix.TIOCSPTLCK, 0); err != nil {
		master.Close()
		return nil, nil, curated.Errorf("simulator: unlocking pty: %w", err)
	}

	n, err := unix.IoctlGetInt(int(master.Fd()), unix.TIOCGPTN)
	if err != nil {
		master.Close()
		return nil, nil, curated.Errorf("simulator: reading pty number: %w", err)
	}

	slavePath := fmt.Sprintf("/dev/pts/%d", n)
	slave, err = os.OpenFile(slavePath, os.O_RDWR, 0)
	if err != nil {
		master.Close()
		return nil, nil, curated.Errorf("simulator: opening pty slave %s: %w", slavePath, err)
	}

	return master, slave, nil
}

// PtyTransport implements platform.Transport over a pseudo-terminal pair: the
// stub under test talks to the master end exactly as it would a real serial
// line, while a host-side test driver (or a human with `screen`/`minicom`)
// opens the slave path.
type PtyTransport struct {
	master *os.File
	slave  *os.File

	irqMask uint32
}

// NewPtyTransport returns a transport that will request irqMask's bits be
// routed to it for the duration of each debugging session. A mask of zero
// means the stub leaves interrupts disabled throughout, matching
// platform.Transport.InterruptMask's documented zero-value behaviour.
func NewPtyTransport(irqMask uint32) *PtyTransport {
	return &PtyTransport{irqMask: irqMask}
}

// Init opens the pty pair and puts the master end into raw mode so no line
// discipline mangles the binary-escaped X-command payloads.
func (p *PtyTransport) Init(_ interface{}) bool {
	master, slave, err := openPTY()
	if err != nil {
		return false
	}
	p.master = master
	p.slave = slave

	var raw unix.Termios
	if err := termios.Tcgetattr(p.master.Fd(), &raw); err == nil {
		termios.Cfmakeraw(&raw)
		_ = termios.Tcsetattr(p.master.Fd(), termios.TCIFLUSH, &raw)
	}

	return true
}

// SlavePath returns the /dev/pts/N path a host-side debugger client should
// connect to. Valid only after a successful Init.
func (p *PtyTransport) SlavePath() string {
	if p.slave == nil {
		return ""
	}
	return p.slave.Name()
}

// ReadByte is a short-deadline, non-blocking read, matching the
// platform.Transport contract: it returns false rather than blocking when no
// byte is available within a brief window.
func (p *PtyTransport) ReadByte(out *byte) bool {
	_ = p.master.SetReadDeadline(time.Now().Add(time.Millisecond))

	buf := make([]byte, 1)
	n, _ := p.master.Read(buf)
	if n != 1 {
		return false
	}
	*out = buf[0]
	return true
}

// WriteByte writes a single byte to the master end.
func (p *PtyTransport) WriteByte(b byte) {
	_, _ = p.master.Write([]byte{b})
}

// WriteData writes buf in one call.
func (p *PtyTransport) WriteData(buf []byte) {
	_, _ = p.master.Write(buf)
}

// Poll is a no-op; the short read deadline in ReadByte already yields
// control back to the caller between bytes.
func (p *PtyTransport) Poll() {}

// InterruptMask returns the mask this transport was constructed with.
func (p *PtyTransport) InterruptMask() uint32 {
	return p.irqMask
}

// Close releases both ends of the pty pair.
func (p *PtyTransport) Close() error {
	var err error
	if p.slave != nil {
		err = p.slave.Close()
	}
	if p.master != nil {
		if e := p.master.Close(); err == nil {
			err = e
		}
	}
	return err
}
