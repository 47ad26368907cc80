// Package resourcestest provides an in-memory fullnode for exercising code
// that reads account resources over REST.
package resourcestest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"financer/core/types"
)

// Server serves /v1/accounts/{address}/resource/{type} and
// /v1/accounts/{address}/resources from an in-memory table.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[types.Address]map[string]json.RawMessage
	requests  []*http.Request
	failWith  int
	pageLimit int
}

// NewServer starts a fake fullnode that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{accounts: make(map[types.Address]map[string]json.RawMessage)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Put stores a resource whose data is the JSON encoding of data.
func (s *Server) Put(t testing.TB, address, resourceType string, data interface{}) {
	t.Helper()
	addr, err := types.ParseAddress(address)
	if err != nil {
		t.Fatalf("parse address %q: %v", address, err)
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("encode resource %s: %v", resourceType, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accounts[addr] == nil {
		s.accounts[addr] = make(map[string]json.RawMessage)
	}
	s.accounts[addr][resourceType] = encoded
}

// PutRaw stores a resource with a literal JSON data payload.
func (s *Server) PutRaw(t testing.TB, address, resourceType, data string) {
	t.Helper()
	s.Put(t, address, resourceType, json.RawMessage(data))
}

// FailWith makes every subsequent request fail with the given status code.
// Zero restores normal behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	s.failWith = status
	s.mu.Unlock()
}

// SetPageLimit caps the number of resources returned per listing page
// regardless of the limit query parameter.
func (s *Server) SetPageLimit(limit int) {
	s.mu.Lock()
	s.pageLimit = limit
	s.mu.Unlock()
}

// Requests returns the requests received so far.
func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*http.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Clone(r.Context()))

	if s.failWith != 0 {
		writeError(w, s.failWith, "internal_error", "injected failure")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "invalid_input", "method not allowed")
		return
	}
	rest, ok := strings.CutPrefix(r.URL.EscapedPath(), "/v1/accounts/")
	if !ok {
		writeError(w, http.StatusNotFound, "web_framework_error", "unknown route")
		return
	}
	rawAddr, tail, _ := strings.Cut(rest, "/")
	addr, err := types.ParseAddress(rawAddr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	account, exists := s.accounts[addr]

	switch {
	case tail == "resources":
		if !exists {
			writeError(w, http.StatusNotFound, "account_not_found", "Account not found by Address("+addr.Long()+")")
			return
		}
		s.serveList(w, r, account)
	case strings.HasPrefix(tail, "resource/"):
		resourceType, err := url.PathUnescape(strings.TrimPrefix(tail, "resource/"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		data, found := account[resourceType]
		if !found {
			writeError(w, http.StatusNotFound, "resource_not_found", "Resource not found by Address("+addr.Long()+"), Struct tag("+resourceType+")")
			return
		}
		writeJSON(w, http.StatusOK, types.Resource[json.RawMessage]{Type: resourceType, Data: data})
	default:
		writeError(w, http.StatusNotFound, "web_framework_error", "unknown route")
	}
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request, account map[string]json.RawMessage) {
	keys := make([]string, 0, len(account))
	for key := range account {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	limit := len(keys)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}
	if s.pageLimit > 0 && s.pageLimit < limit {
		limit = s.pageLimit
	}
	start := 0
	if cursor := r.URL.Query().Get("start"); cursor != "" {
		start = sort.SearchStrings(keys, cursor)
	}
	end := start + limit
	if end > len(keys) {
		end = len(keys)
	}
	page := make([]types.Resource[json.RawMessage], 0, end-start)
	for _, key := range keys[start:end] {
		page = append(page, types.Resource[json.RawMessage]{Type: key, Data: account[key]})
	}
	if end < len(keys) {
		w.Header().Set("X-Aptos-Cursor", keys[end])
	}
	writeJSON(w, http.StatusOK, page)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"message":       message,
		"error_code":    code,
		"vm_error_code": nil,
	})
}
