// Package httpapi exposes the single HTTP endpoint of spec.md §6:
// POST /execute taking {"command": "..."} and returning {"result": ...}
// or, on any engine error, a 400 with {"error": "..."}. Grounded in
// original_source/src/server.py's FastAPI route of the same shape.
//
// Execute is not safe for concurrent invocation (spec.md §5, §9 "Open
// question: concurrent HTTP callers"), so every request that touches the
// catalog is serialized behind a 1-buffered channel semaphore before
// reaching the executor — the same single-writer discipline a TCP
// accept loop would otherwise enforce, generalized here to
// JSON-over-HTTP.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/briarql/briarql/internal/catalog"
	"github.com/briarql/briarql/internal/dberrors"
)

type commandRequest struct {
	Command string `json:"command"`
}

type resultResponse struct {
	Result interface{} `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type tableInfoResponse struct {
	Columns   []string `json:"columns"`
	NodeCount int      `json:"node_count"`
	Height    int      `json:"height"`
}

// Server wraps an Executor behind a mutex and an advisory file lock on
// the data directory, so a second process can never open the same
// tables concurrently (spec.md §5). Grounded on github.com/gofrs/flock's
// TryLock usage in untoldecay-BeadsLog/cmd/bd/sync.go.
type Server struct {
	executor *catalog.Executor
	logger   *log.Logger
	lock     *flock.Flock
	mu       chan struct{} // 1-buffered semaphore; serializes Execute calls
}

// New acquires the advisory lock at lockPath and returns a Server ready
// to be handed to http.Serve / http.ListenAndServeTLS. The caller owns
// calling Close when the process shuts down.
func New(executor *catalog.Executor, logger *log.Logger, lockPath string) (*Server, error) {
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, dberrors.Wrap(dberrors.IO, err, "acquire data directory lock %s", lockPath)
	}
	if !locked {
		return nil, dberrors.New(dberrors.IO, "data directory %s is already locked by another process", lockPath)
	}
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &Server{executor: executor, logger: logger, lock: lock, mu: mu}, nil
}

// Close releases the advisory lock.
func (s *Server) Close() error {
	return s.lock.Unlock()
}

// Handler returns the HTTP mux serving /execute, /healthz, and the
// catalog introspection/maintenance routes backing DROP TABLE/LIST
// TABLES/DESCRIBE (SPEC_FULL.md §4.3's supplemental operations, which
// have no grammar production and so are exposed as their own routes
// rather than SQL statements).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("GET /tables", s.handleListTables)
	mux.HandleFunc("GET /tables/{name}", s.handleDescribeTable)
	mux.HandleFunc("DELETE /tables/{name}", s.handleDropTable)
	return s.withRequestID(mux)
}

// withRequestID stamps every request with a correlation id (grounded on
// github.com/google/uuid, used for log correlation the way a production
// HTTP front door would, not carried on the wire response).
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Printf("request_id=%s method=%s path=%s duration=%s", id, r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "malformed request body: "+err.Error())
		return
	}

	<-s.mu
	result, err := s.executor.Execute(req.Command)
	s.mu <- struct{}{}

	if err != nil {
		writeError(w, err.Error())
		return
	}
	writeResult(w, result)
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	<-s.mu
	names := s.executor.ListTables()
	s.mu <- struct{}{}
	writeResult(w, names)
}

func (s *Server) handleDescribeTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	<-s.mu
	info, err := s.executor.Describe(name)
	s.mu <- struct{}{}
	if err != nil {
		writeError(w, err.Error())
		return
	}
	writeResult(w, tableInfoResponse{Columns: info.Columns, NodeCount: info.NodeCount, Height: info.Height})
}

func (s *Server) handleDropTable(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	<-s.mu
	status, err := s.executor.DropTable(name)
	s.mu <- struct{}{}
	if err != nil {
		writeError(w, err.Error())
		return
	}
	writeResult(w, status)
}

func writeResult(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resultResponse{Result: result})
}

func writeError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
