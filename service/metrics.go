/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package service

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	units "github.com/docker/go-units"
)

// Metrics are plain atomic counters; the hot path never takes a lock.
type Metrics struct {
	started time.Time

	ActiveConnections atomic.Int64 // maintained by the http.Server ConnState callback
	Requests          atomic.Int64
	Evaluations       atomic.Int64
	Failures          atomic.Int64
	SourceBytes       atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{started: time.Now()}
}

func (m *Metrics) connState(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		m.ActiveConnections.Add(1)
	case http.StateClosed, http.StateHijacked:
		m.ActiveConnections.Add(-1)
	}
}

func (m *Metrics) evaluated(source string, err error) {
	m.Evaluations.Add(1)
	m.SourceBytes.Add(int64(len(source)))
	if err != nil {
		m.Failures.Add(1)
	}
}

// Print writes one "name value" line per counter
func (m *Metrics) Print(w io.Writer, sessions int) {
	uptime := time.Since(m.started)
	fmt.Fprintf(w, "uptime_seconds %d\n", int64(uptime.Seconds()))
	fmt.Fprintf(w, "uptime %s\n", units.HumanDuration(uptime))
	fmt.Fprintf(w, "active_connections %d\n", m.ActiveConnections.Load())
	fmt.Fprintf(w, "sessions %d\n", sessions)
	fmt.Fprintf(w, "requests_total %d\n", m.Requests.Load())
	fmt.Fprintf(w, "evaluations_total %d\n", m.Evaluations.Load())
	fmt.Fprintf(w, "evaluation_failures_total %d\n", m.Failures.Load())
	fmt.Fprintf(w, "source_bytes_total %d\n", m.SourceBytes.Load())
	fmt.Fprintf(w, "source_size %s\n", units.HumanSize(float64(m.SourceBytes.Load())))
}
