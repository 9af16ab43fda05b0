package server

import (
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// HealthStatus is the /healthz body.
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Events        int     `json:"events"`
	RSSBytes      uint64  `json:"rss_bytes,omitempty"`
	SystemMemUsed float64 `json:"system_mem_used_percent,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := HealthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(s.started).Seconds(),
		Events:        -1,
	}
	if s.opts.Counter != nil {
		st.Events = s.opts.Counter.Len()
	}

	// Resource figures are best effort; a platform without them still
	// reports healthy.
	if p, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil {
			st.RSSBytes = mi.RSS
		}
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		st.SystemMemUsed = vm.UsedPercent
	}

	writeJSON(w, http.StatusOK, st)
}
