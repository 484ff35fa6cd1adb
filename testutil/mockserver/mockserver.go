// Package mockserver provides a gin-backed HTTP server with canned endpoints
// for exercising the transport engine in tests.
//
// Built-in routes (any method):
//
//	/echo          echoes the request body and content type with 200
//	/status/:code  responds with the code and the "body" query parameter
//	/slow          never responds until the client gives up or the server closes
//	/headers       responds with the request headers as a JSON object
//	/json          responds with {"ok":true}
package mockserver

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// Recorded is a request as the server saw it.
type Recorded struct {
	Method string
	Path   string
	Query  string
	Body   string
	Header http.Header
}

// Server is a running mock server.
type Server struct {
	*httptest.Server

	router  *gin.Engine
	release chan struct{}
	once    sync.Once

	mu       sync.Mutex
	hits     map[string]int
	requests []Recorded
}

// New starts a mock server. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		router:  gin.New(),
		release: make(chan struct{}),
		hits:    make(map[string]int),
	}
	s.router.Use(gin.Recovery(), s.record)

	s.router.Any("/echo", s.echo)
	s.router.Any("/status/:code", s.status)
	s.router.Any("/slow", s.slow)
	s.router.Any("/headers", s.headers)
	s.router.Any("/json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{"ok":true}`))
	})

	s.Server = httptest.NewServer(s.router)
	return s
}

// Handle registers a custom route. Register routes before issuing calls.
func (s *Server) Handle(method, path string, h gin.HandlerFunc) {
	s.router.Handle(method, path, h)
}

// URL returns the absolute URL of path.
func (s *Server) URL(path string) string {
	return s.Server.URL + path
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *Server) LastRequest() (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Recorded{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Close releases pending /slow handlers and shuts the server down.
func (s *Server) Close() {
	s.once.Do(func() { close(s.release) })
	s.Server.Close()
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}

	s.mu.Lock()
	s.hits[c.Request.URL.Path]++
	s.requests = append(s.requests, Recorded{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   string(body),
		Header: c.Request.Header.Clone(),
	})
	s.mu.Unlock()

	c.Next()
}

func (s *Server) echo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	contentType := c.ContentType()
	if contentType == "" {
		contentType = "text/plain"
	}
	c.Data(http.StatusOK, contentType, body)
}

func (s *Server) status(c *gin.Context) {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil || code < 100 || code > 999 {
		c.String(http.StatusBadRequest, "invalid status code %q", c.Param("code"))
		return
	}
	c.Header("X-Mock-Status", c.Param("code"))
	c.Data(code, "text/plain; charset=utf-8", []byte(c.Query("body")))
}

func (s *Server) slow(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
	case <-s.release:
	}
}

func (s *Server) headers(c *gin.Context) {
	out := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	c.JSON(http.StatusOK, out)
}
