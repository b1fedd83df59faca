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

import "sync"

// Stats accumulates the live counters a test driver wants visible while it
// exercises the stub over a PtyTransport: packets framed in each direction,
// NAKs observed, breakpoint-pool list occupancy, and step-plan outcomes.
// Safe for concurrent use, since the dashboard's HTTP handler reads it from
// a different goroutine than the one driving the session.
type Stats struct {
	mu sync.Mutex

	PacketsSent     int
	PacketsReceived int
	NAKs            int
	StepsPlanned    int
	StepsUncertain  int

	PoolFree     int
	PoolActive   int
	PoolStepping int
	PoolDisabled int
}

// RecordSend counts one outbound packet.
func (s *Stats) RecordSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PacketsSent++
}

// RecordReceive counts one inbound packet.
func (s *Stats) RecordReceive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PacketsReceived++
}

// RecordNAK counts one checksum-mismatch retry.
func (s *Stats) RecordNAK() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.NAKs++
}

// RecordStep counts one step-plan outcome.
func (s *Stats) RecordStep(uncertain bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.StepsPlanned++
	if uncertain {
		s.StepsUncertain++
	}
}

// SetPoolOccupancy records the current size of each of the pool's four
// lists, the way a test driver would sample it between commands.
func (s *Stats) SetPoolOccupancy(free, active, stepping, disabled int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PoolFree = free
	s.PoolActive = active
	s.PoolStepping = stepping
	s.PoolDisabled = disabled
}

// Snapshot is a lock-free copy of Stats' counters at one point in time,
// suitable for handing to a template or JSON encoder without holding Stats'
// mutex for the duration.
type Snapshot struct {
	PacketsSent     int
	PacketsReceived int
	NAKs            int
	StepsPlanned    int
	StepsUncertain  int

	PoolFree     int
	PoolActive   int
	PoolStepping int
	PoolDisabled int
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		PacketsSent:     s.PacketsSent,
		PacketsReceived: s.PacketsReceived,
		NAKs:            s.NAKs,
		StepsPlanned:    s.StepsPlanned,
		StepsUncertain:  s.StepsUncertain,
		PoolFree:        s.PoolFree,
		PoolActive:      s.PoolActive,
		PoolStepping:    s.PoolStepping,
		PoolDisabled:    s.PoolDisabled,
	}
}
