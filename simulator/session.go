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

// Session bundles the pieces a manual or automated integration test wires
// together: a pty transport the stub under test talks to, the counters a
// driver updates as it frames packets and observes pool occupancy, and the
// dashboard that serves them.
type Session struct {
	Transport *PtyTransport
	Stats     *Stats
	Dashboard *Dashboard
}

// NewSession opens a pty pair and mounts the dashboard at addr. Call
// Transport.SlavePath() to learn where a host-side debugger client (or the
// stub under test, if it reads the other end) should connect.
func NewSession(irqMask uint32, dashboardAddr string) (*Session, error) {
	transport := NewPtyTransport(irqMask)
	if !transport.Init(nil) {
		return nil, errPtyInit
	}

	stats := &Stats{}
	dash := NewDashboard(stats, dashboardAddr)
	dash.Start()

	return &Session{Transport: transport, Stats: stats, Dashboard: dash}, nil
}

// Close tears a session down: the dashboard first, then both ends of the
// pty.
func (s *Session) Close() error {
	s.Dashboard.Stop()
	return s.Transport.Close()
}
