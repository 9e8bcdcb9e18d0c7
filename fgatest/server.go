package fgatest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/fgakit/component"
	"github.com/kbukum/fgakit/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Tuple is a stored relationship.
type Tuple struct {
	User     string `json:"user"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

type writeKey struct {
	Tuple
	Description string `json:"description"`
}

type checkBody struct {
	TupleKey             Tuple  `json:"tuple_key"`
	AuthorizationModelID string `json:"authorization_model_id"`
}

type writeBody struct {
	Writes *struct {
		TupleKeys []writeKey `json:"tuple_keys"`
	} `json:"writes"`
	Deletes *struct {
		TupleKeys []writeKey `json:"tuple_keys"`
	} `json:"deletes"`
	AuthorizationModelID string `json:"authorization_model_id"`
}

// Request is a request received by the fake.
type Request struct {
	// Endpoint is "check" or "write".
	Endpoint string
	StoreID  string
	Header   http.Header
	// Body is the raw request body.
	Body []byte
}

// JSON decodes the request body into a generic map for assertions on the
// exact wire shape.
func (r Request) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

type reply struct {
	status int
	body   string
}

// Server is a fake authorization service on an httptest server. Checks are
// answered from the tuples written to it unless replies have been scripted
// with Reply.
type Server struct {
	mu       sync.RWMutex
	engine   *gin.Engine
	ts       *httptest.Server
	token    string
	tuples   map[Tuple]bool
	requests []Request
	replies  []reply
}

var (
	_ component.Component    = (*Server)(nil)
	_ testutil.TestComponent = (*Server)(nil)
)

// New creates a stopped fake.
func New() *Server {
	s := &Server{tuples: make(map[Tuple]bool)}
	s.engine = gin.New()
	stores := s.engine.Group("/stores/:store_id", s.record, s.authorize, s.scripted)
	stores.POST("/check", s.check)
	stores.POST("/write", s.write)
	return s
}

// NewStarted creates a fake, starts it and stops it when t's test ends.
func NewStarted(t testing.TB) *Server {
	t.Helper()
	s := New()
	testutil.T(t).Start(s)
	return s
}

// RequireToken makes the fake answer 401 unless requests carry
// "Authorization: Bearer <token>".
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Reply queues a scripted answer. Queued answers are served in order, one
// per request, before the fake falls back to evaluating tuples.
func (s *Server) Reply(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, reply{status: status, body: body})
}

// AddTuple stores a relationship directly.
func (s *Server) AddTuple(user, relation, object string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuples[Tuple{User: user, Relation: relation, Object: object}] = true
}

// HasTuple reports whether a relationship is stored.
func (s *Server) HasTuple(user, relation, object string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tuples[Tuple{User: user, Relation: relation, Object: object}]
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request. It panics if there is none.
func (s *Server) LastRequest() Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		panic("fgatest: no requests received")
	}
	return s.requests[len(s.requests)-1]
}

// URL returns the base URL, empty before Start.
func (s *Server) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Client returns an *http.Client for the fake, nil before Start.
func (s *Server) Client() *http.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return nil
	}
	return s.ts.Client()
}

// --- component.Component ---

// Name returns the component name.
func (s *Server) Name() string { return "fga-fake" }

// Start starts the HTTP listener.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("fgatest: already started")
	}
	s.ts = httptest.NewServer(s.engine)
	return nil
}

// Stop closes the listener.
func (s *Server) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return nil
	}
	s.ts.Close()
	s.ts = nil
	return nil
}

// Health reports unhealthy until Start.
func (s *Server) Health(_ context.Context) component.Health {
	if s.URL() == "" {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

// --- testutil.TestComponent ---

// Reset drops tuples, recorded requests and scripted replies.
func (s *Server) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuples = make(map[Tuple]bool)
	s.requests = nil
	s.replies = nil
	return nil
}

// Snapshot returns a copy of the stored tuples.
func (s *Server) Snapshot(_ context.Context) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTuples(s.tuples), nil
}

// Restore replaces the stored tuples with a snapshot.
func (s *Server) Restore(_ context.Context, snapshot any) error {
	tuples, ok := snapshot.(map[Tuple]bool)
	if !ok {
		return fmt.Errorf("fgatest: unexpected snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tuples = copyTuples(tuples)
	return nil
}

func copyTuples(in map[Tuple]bool) map[Tuple]bool {
	out := make(map[Tuple]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// --- handlers ---

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Set("body", body)

	endpoint := c.FullPath()[strings.LastIndex(c.FullPath(), "/")+1:]
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Endpoint: endpoint,
		StoreID:  c.Param("store_id"),
		Header:   c.Request.Header.Clone(),
		Body:     body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) authorize(c *gin.Context) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" && c.GetHeader("Authorization") != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "unauthenticated",
			"message": "unauthenticated",
		})
		return
	}
	c.Next()
}

func (s *Server) scripted(c *gin.Context) {
	s.mu.Lock()
	if len(s.replies) == 0 {
		s.mu.Unlock()
		c.Next()
		return
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	c.Data(r.status, "application/json", []byte(r.body))
	c.Abort()
}

func (s *Server) check(c *gin.Context) {
	var req checkBody
	if err := json.Unmarshal(c.MustGet("body").([]byte), &req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}
	t := req.TupleKey
	if t.User == "" || t.Relation == "" || t.Object == "" {
		badRequest(c, "validation_error", "tuple_key requires user, relation and object")
		return
	}

	s.mu.RLock()
	allowed := s.tuples[t]
	if !allowed {
		typ, _, _ := strings.Cut(t.User, ":")
		allowed = s.tuples[Tuple{User: typ + ":*", Relation: t.Relation, Object: t.Object}]
	}
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"allowed": allowed, "resolution": ""})
}

func (s *Server) write(c *gin.Context) {
	var req writeBody
	if err := json.Unmarshal(c.MustGet("body").([]byte), &req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := copyTuples(s.tuples)
	if req.Writes != nil {
		for _, k := range req.Writes.TupleKeys {
			if next[k.Tuple] {
				badRequest(c, writeFailed, fmt.Sprintf("cannot write a tuple which already exists: user: '%s', relation: '%s', object: '%s'", k.User, k.Relation, k.Object))
				return
			}
			next[k.Tuple] = true
		}
	}
	if req.Deletes != nil {
		for _, k := range req.Deletes.TupleKeys {
			if !next[k.Tuple] {
				badRequest(c, writeFailed, fmt.Sprintf("cannot delete a tuple which does not exist: user: '%s', relation: '%s', object: '%s'", k.User, k.Relation, k.Object))
				return
			}
			delete(next, k.Tuple)
		}
	}
	s.tuples = next
	c.JSON(http.StatusOK, gin.H{})
}

const writeFailed = "write_failed_due_to_invalid_input"

func badRequest(c *gin.Context, code, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": code, "message": msg})
}
