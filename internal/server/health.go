package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// HealthResponse is GET /health.
type HealthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	Version       string  `json:"version"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	API           string  `json:"api"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	ProcessRSSMB  float64 `json:"process_rss_mb"`
	Database      string  `json:"database"`
	DatabaseMB    float64 `json:"database_mb"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := s.getSystemStats()
	response := HealthResponse{
		Status:        "healthy",
		Service:       "nwcreek",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		API:           s.api.BaseURL(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		ProcessRSSMB:  s.getProcessRSS(),
		Database:      "ok",
	}

	status := http.StatusOK
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.QuickCheck(ctx); err != nil {
		s.log.Error().Err(err).Msg("Database health check failed")
		response.Status = "degraded"
		response.Database = err.Error()
		status = http.StatusServiceUnavailable
	} else if stats, err := s.db.GetStats(); err == nil {
		response.DatabaseMB = float64(stats.SizeBytes+stats.WALSizeBytes) / 1024 / 1024
	}

	s.writeJSON(w, status, response)
}

// getSystemStats returns CPU and RAM usage percentages. The CPU sample is kept short
// so health probes stay fast.
func (s *Server) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

func (s *Server) getProcessRSS() float64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to get process memory")
		return 0
	}
	return float64(info.RSS) / 1024 / 1024
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
