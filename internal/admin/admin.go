// Package admin exposes the conductor's internal state over a plain HTTP
// API: registry snapshots, buffer occupancy, process resource usage, and
// on-demand CPU profiling. Grounded route-for-route on the teacher's
// monitoring/monitor.go, narrowed from a full simulation-control surface
// (pause/continue/run/tick) — which has no meaning for a live control
// plane with no notion of simulated time — to read-only diagnostics.
package admin

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/marksb/aeron/internal/conductor"
)

// Registry is the conductor-facing view the admin surface reads from. A
// *conductor.Conductor satisfies this directly.
type Registry interface {
	Publications() []conductor.PublicationSnapshot
	Subscriptions() []conductor.SubscriptionSnapshot
	Images() []conductor.ImageSnapshot
	Clients() []conductor.ClientSnapshot
	Endpoints() []conductor.EndpointSnapshot
	Buffers() []conductor.BufferStat
	ErrorCount() int64
}

// Server wraps a mux.Router reading from a Registry. It never blocks the
// conductor: every handler takes a point-in-time snapshot and serializes
// it, the same read-only posture spec.md's admin surface needs since the
// conductor itself has no mutex to hand out.
type Server struct {
	registry Registry
	router   *mux.Router
}

// New builds a Server's routes. Call ListenAndServe (or Router, for
// tests) to actually serve it.
func New(registry Registry) *Server {
	s := &Server{registry: registry, router: mux.NewRouter()}

	s.router.HandleFunc("/api/publications", s.listPublications)
	s.router.HandleFunc("/api/subscriptions", s.listSubscriptions)
	s.router.HandleFunc("/api/images", s.listImages)
	s.router.HandleFunc("/api/clients", s.listClients)
	s.router.HandleFunc("/api/endpoints", s.listEndpoints)
	s.router.HandleFunc("/api/buffers", s.listBuffers)
	s.router.HandleFunc("/api/errors", s.errorCount)
	s.router.HandleFunc("/api/resource", s.resourceUsage)
	s.router.HandleFunc("/api/profile", s.collectProfile)
	s.router.HandleFunc("/api/state", s.dumpState)
	s.router.HandleFunc("/api/state/{path}", s.dumpStateField)

	return s
}

// Router exposes the underlying mux.Router, mostly for tests that want to
// drive requests through httptest.NewServer without a real listener.
func (s *Server) Router() *mux.Router { return s.router }

// ListenAndServe serves the admin API on addr until the underlying
// http.Server's ListenAndServe returns, and returns its error. The server
// is not exposed to the caller, so it cannot be shut down through it.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) listPublications(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.registry.Publications())
}

func (s *Server) listSubscriptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.registry.Subscriptions())
}

func (s *Server) listImages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.registry.Images())
}

func (s *Server) listClients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.registry.Clients())
}

func (s *Server) listEndpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.registry.Endpoints())
}

type bufferOccupancy struct {
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
}

func (s *Server) listBuffers(w http.ResponseWriter, _ *http.Request) {
	bufs := s.registry.Buffers()
	out := make([]bufferOccupancy, 0, len(bufs))
	for _, b := range bufs {
		out = append(out, bufferOccupancy{Name: b.Name(), Size: b.Size(), Capacity: b.Capacity()})
	}
	writeJSON(w, out)
}

type errorCountRsp struct {
	ErrorCount int64 `json:"error_count"`
}

func (s *Server) errorCount(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, errorCountRsp{ErrorCount: s.registry.ErrorCount()})
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) resourceUsage(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, resourceRsp{CPUPercent: cpuPercent, MemorySize: mem.RSS})
}
