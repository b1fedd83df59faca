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
	"encoding/json"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Dashboard mounts go-echarts' statsview alongside a small JSON endpoint
// for this package's own Stats counters: statsview covers the Go runtime's
// view of a session (goroutines, heap), /stub/stats covers what only this
// package can count (packets, NAKs, pool occupancy, step outcomes).
type Dashboard struct {
	viewer *statsview.ViewManager
	stats  *Stats
}

// NewDashboard returns a Dashboard that will report stats when started. addr
// is the host:port statsview listens on, e.g. "localhost:18081".
func NewDashboard(stats *Stats, addr string) *Dashboard {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	return &Dashboard{
		viewer: statsview.New(),
		stats:  stats,
	}
}

// Start mounts the stub-stats JSON endpoint and launches statsview's own
// server in the background. It does not block; call Stop to shut both down
// at the end of a session.
func (d *Dashboard) Start() {
	http.HandleFunc("/stub/stats", d.serveStats)
	go d.viewer.Start()
}

// Stop shuts the statsview server down.
func (d *Dashboard) Stop() {
	d.viewer.Stop()
}

func (d *Dashboard) serveStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(d.stats.Snapshot())
}
