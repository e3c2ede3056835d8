// Package fakeadmin provides an in-process fake of the admin REST API for
// tests. It serves the /api/{scope}/{entity} surface from an in-memory store
// and can inject failures per collection and method: forced status codes,
// malformed JSON bodies, and response delays. Seeding accepts duplicate rows
// on purpose, so reconciliation behavior can be exercised end to end.
package fakeadmin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// FailureType selects how an injected failure manifests.
type FailureType string

const (
	// FailureStatus responds with a fixed status code and error envelope.
	FailureStatus FailureType = "status"
	// FailureMalformedJSON responds 200 with a body that is not JSON.
	FailureMalformedJSON FailureType = "malformed_json"
	// FailureDelay sleeps before handling the request normally.
	FailureDelay FailureType = "delay"
)

// Failure configures one injected failure.
type Failure struct {
	Type    FailureType
	Status  int
	Message string
	Delay   time.Duration
	// Times is how many requests the failure applies to; zero or negative
	// means until cleared.
	Times int
}

// Row is one stored record. The fake is schemaless; tests seed whatever
// shape the entity under test decodes.
type Row = map[string]any

type failureKey struct {
	method string
	coll   string
}

// Server is the fake API. Create one per test with New and defer Close.
type Server struct {
	mu       sync.Mutex
	store    map[string][]Row
	failures map[failureKey]*Failure

	srv *httptest.Server
}

// New starts the fake on a random local port.
func New() *Server {
	s := &Server{
		store:    make(map[string][]Row),
		failures: make(map[failureKey]*Failure),
	}

	r := mux.NewRouter()
	// The upload route must outrank the generic {entity} routes.
	r.HandleFunc("/api/superadmin/materials/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/companies/{companyID}/materials/upload", s.handleUpload).Methods(http.MethodPost)

	for _, prefix := range []string{"/api/superadmin", "/api/companies/{companyID}"} {
		r.HandleFunc(prefix+"/{entity}", s.handleList).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/{entity}", s.handleCreate).Methods(http.MethodPost)
		r.HandleFunc(prefix+"/{entity}/{id}", s.handleGet).Methods(http.MethodGet)
		r.HandleFunc(prefix+"/{entity}/{id}", s.handleReplace).Methods(http.MethodPut)
		r.HandleFunc(prefix+"/{entity}/{id}", s.handlePatch).Methods(http.MethodPatch)
		r.HandleFunc(prefix+"/{entity}/{id}", s.handleDelete).Methods(http.MethodDelete)
	}

	s.srv = httptest.NewServer(r)
	return s
}

// URL is the base URL clients should be pointed at.
func (s *Server) URL() string { return s.srv.URL }

// Close shuts the fake down.
func (s *Server) Close() { s.srv.Close() }

// collKey derives the store key from the request path: everything between
// /api/ and the entity's id segment, e.g. "superadmin/companies" or
// "companies/c1/students".
func collKey(r *http.Request) string {
	v := mux.Vars(r)
	trimmed := strings.TrimPrefix(r.URL.Path, "/api/")
	if id, ok := v["id"]; ok {
		trimmed = strings.TrimSuffix(trimmed, "/"+id)
	}
	return trimmed
}

// Seed replaces the rows of one collection. Duplicate ids are stored as
// given. The key matches collKey: "superadmin/companies",
// "companies/c1/students", ...
func (s *Server) Seed(key string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Row, len(rows))
	for i, row := range rows {
		copied[i] = cloneRow(row)
	}
	s.store[key] = copied
}

// Rows returns a copy of a collection's stored rows.
func (s *Server) Rows(key string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.store[key]))
	for i, row := range s.store[key] {
		out[i] = cloneRow(row)
	}
	return out
}

// Inject arms a failure for the given method and collection key.
func (s *Server) Inject(method, key string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fc := f
	s.failures[failureKey{method: method, coll: key}] = &fc
}

// ClearFailures disarms all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[failureKey]*Failure)
}

// fail applies any armed failure; it reports whether the request was
// consumed by it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request) bool {
	key := failureKey{method: r.Method, coll: collKey(r)}

	s.mu.Lock()
	f, ok := s.failures[key]
	var cfg Failure
	if ok {
		cfg = *f
		if f.Times > 0 {
			f.Times--
			if f.Times == 0 {
				delete(s.failures, key)
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	switch cfg.Type {
	case FailureDelay:
		time.Sleep(cfg.Delay)
		return false
	case FailureMalformedJSON:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
		return true
	default:
		status := cfg.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		respondJSON(w, status, map[string]string{"error": cfg.Message})
		return true
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// normalize mirrors what the real API does to incoming attributes, so tests
// can assert that the server's version wins over the submitted payload.
func normalize(row Row) {
	for _, field := range []string{"name", "title", "email"} {
		if v, ok := row[field].(string); ok {
			row[field] = strings.TrimSpace(v)
		}
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	rows := s.store[collKey(r)]
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = cloneRow(row)
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.store[collKey(r)] {
		if row["id"] == id {
			respondJSON(w, http.StatusOK, cloneRow(row))
			return
		}
	}
	respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	var row Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	if _, ok := row["id"].(string); !ok || row["id"] == "" {
		row["id"] = uuid.NewString()
	}
	row["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	normalize(row)

	key := collKey(r)
	s.mu.Lock()
	s.store[key] = append(s.store[key], cloneRow(row))
	s.mu.Unlock()
	respondJSON(w, http.StatusCreated, row)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id := mux.Vars(r)["id"]
	var row Row
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}
	row["id"] = id
	normalize(row)

	key := collKey(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.store[key] {
		if existing["id"] == id {
			s.store[key][i] = cloneRow(row)
			respondJSON(w, http.StatusOK, row)
			return
		}
	}
	respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handlePatch(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id := mux.Vars(r)["id"]
	var partial Row
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		return
	}

	key := collKey(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.store[key] {
		if existing["id"] == id {
			merged := cloneRow(existing)
			for k, v := range partial {
				merged[k] = v
			}
			merged["id"] = id
			normalize(merged)
			s.store[key][i] = merged
			respondJSON(w, http.StatusOK, cloneRow(merged))
			return
		}
	}
	respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	id := mux.Vars(r)["id"]
	key := collKey(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.store[key] {
		if existing["id"] == id {
			s.store[key] = append(s.store[key][:i], s.store[key][i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	respondJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart payload"})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file"})
		return
	}
	defer file.Close()

	respondJSON(w, http.StatusOK, map[string]any{
		"filePath": "/uploads/" + uuid.NewString() + "/" + header.Filename,
		"fileName": header.Filename,
		"fileSize": header.Size,
	})
}
