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

package simulator_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"armdbgstub/bppool"
	"armdbgstub/simulator"
	"armdbgstub/test"
)

func TestStatsAccumulate(t *testing.T) {
	var s simulator.Stats

	s.RecordSend()
	s.RecordSend()
	s.RecordReceive()
	s.RecordNAK()
	s.RecordStep(false)
	s.RecordStep(true)
	s.SetPoolOccupancy(28, 2, 1, 1)

	snap := s.Snapshot()
	test.ExpectEquality(t, snap.PacketsSent, 2)
	test.ExpectEquality(t, snap.PacketsReceived, 1)
	test.ExpectEquality(t, snap.NAKs, 1)
	test.ExpectEquality(t, snap.StepsPlanned, 2)
	test.ExpectEquality(t, snap.StepsUncertain, 1)
	test.ExpectEquality(t, snap.PoolFree, 28)
	test.ExpectEquality(t, snap.PoolActive, 2)
}

func TestDumpPoolGraphProducesOutput(t *testing.T) {
	pool := bppool.NewPool()
	idx, ok := pool.Take(&pool.Active, 0x02000000, false)
	test.ExpectSuccess(t, ok)
	pool.AddHead(&pool.Active, idx)

	var buf bytes.Buffer
	simulator.DumpPoolGraph(&buf, pool)

	test.ExpectInequality(t, buf.Len(), 0)
}

func TestPtyTransportRoundTrip(t *testing.T) {
	if _, err := os.Stat("/dev/ptmx"); err != nil {
		t.Skip("no /dev/ptmx on this host")
	}

	tr := simulator.NewPtyTransport(0)
	test.ExpectSuccess(t, tr.Init(nil))
	defer tr.Close()

	test.ExpectInequality(t, tr.SlavePath(), "")
	test.ExpectEquality(t, tr.InterruptMask(), uint32(0))

	slave, err := os.OpenFile(tr.SlavePath(), os.O_RDWR, 0)
	test.ExpectSuccess(t, err)
	defer slave.Close()

	_, err = slave.Write([]byte{0x42})
	test.ExpectSuccess(t, err)

	deadline := 200
	var b byte
	for deadline > 0 && !tr.ReadByte(&b) {
		deadline--
	}
	test.ExpectEquality(t, b, byte(0x42))
}

func TestPreferencesDefaultsAndRoundTrip(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "simulator_prefs")

	p, err := simulator.NewPreferences(fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p.DashboardAddr.Get().(string), "localhost:18081")
	test.ExpectEquality(t, p.IRQMask.Get().(int), 0)
	test.ExpectEquality(t, p.Logging.Get().(bool), true)

	test.ExpectSuccess(t, p.IRQMask.Set(0x1000))
	test.ExpectSuccess(t, p.Save())

	q, err := simulator.NewPreferences(fn)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, q.IRQMask.Get().(int), 0x1000)
}
