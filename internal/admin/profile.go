package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
)

// collectProfile captures a CPU profile for the requested duration
// (default 1s, matching the teacher's monitor.go) and returns it as JSON,
// the same google/pprof/profile.ParseData round-trip the teacher's
// collectProfile does.
func (s *Server) collectProfile(w http.ResponseWriter, r *http.Request) {
	dur := time.Second
	if q := r.URL.Query().Get("seconds"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			dur = time.Duration(n) * time.Second
		}
	}

	buf := bytes.NewBuffer(nil)
	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	time.Sleep(dur)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(prof); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
