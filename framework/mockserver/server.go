package mockserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/belyf/users-contract-tests/logging"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	adminPathPrefix = "/__admin/"
	defaultAddr     = "127.0.0.1:0"
	shutdownTimeout = time.Second * 5
)

// Server is a stub HTTP server with pluggable response transformers. Each instance owns its
// own mappings, transformers and metrics; nothing is shared between instances.
type Server struct {
	addr         string
	engine       *gin.Engine
	logger       *zap.Logger
	debugLogger  logging.Logger
	metrics      *serverMetrics
	transformers map[string]Transformer
	mappings     []Mapping
	httpServer   *http.Server
	baseURL      string
	lock         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. The default is 127.0.0.1:0, which picks a free port.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLogger sets the structured logger used for access logs and server errors.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithDebugLogger sets a logger that receives a line for every mapping decision.
func WithDebugLogger(l logging.Logger) Option {
	return func(s *Server) { s.debugLogger = l }
}

// New creates a Server. It does not start listening until Start is called, but Handler can
// be used right away.
func New(opts ...Option) *Server {
	s := &Server{
		addr:         defaultAddr,
		logger:       zap.NewNop(),
		debugLogger:  logging.NullLogger(),
		metrics:      newServerMetrics(),
		transformers: make(map[string]Transformer),
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.debugLogger == nil {
		s.debugLogger = logging.NullLogger()
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), accessLog(s.logger), s.metrics.middleware())
	r.GET(adminPathPrefix+"metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
	r.NoRoute(s.dispatch)
	s.engine = r
	return s
}

// RegisterTransformer makes a transformer available to mappings under its Name. Registering
// a second transformer with the same name replaces the first.
func (s *Server) RegisterTransformer(t Transformer) {
	s.lock.Lock()
	s.transformers[t.Name()] = t
	s.lock.Unlock()
}

// StubFor adds a mapping. Later mappings take precedence over earlier ones.
func (s *Server) StubFor(m Mapping) {
	s.lock.Lock()
	s.mappings = append(s.mappings, m)
	s.lock.Unlock()
}

// ResetMappings removes all mappings but keeps registered transformers.
func (s *Server) ResetMappings() {
	s.lock.Lock()
	s.mappings = nil
	s.lock.Unlock()
}

// Handler returns the server's HTTP handler, for use with httptest or an external listener.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start begins listening. It returns once the listener is bound, so requests can be sent to
// BaseURL immediately.
func (s *Server) Start() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.httpServer != nil {
		return errors.New("mock server already started")
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("mock server could not listen on %s: %w", s.addr, err)
	}
	s.baseURL = "http://" + externalHostPort(ln.Addr())
	s.httpServer = &http.Server{Handler: s.engine}
	server := s.httpServer
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock_server_error", zap.Error(err))
		}
	}()
	s.logger.Info("mock_server_start", zap.String("base_url", s.baseURL))
	return nil
}

// BaseURL returns the URL the server is listening on, without a trailing slash. It is empty
// before Start.
func (s *Server) BaseURL() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.baseURL
}

// IsRunning reports whether Start has been called and Stop has not.
func (s *Server) IsRunning() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.httpServer != nil
}

// Stop shuts the listener down, waiting briefly for in-flight requests. It is safe to call
// more than once.
func (s *Server) Stop() {
	s.lock.Lock()
	server := s.httpServer
	s.httpServer = nil
	s.lock.Unlock()
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		s.logger.Warn("mock_server_shutdown", zap.Error(err))
	}
}

func (s *Server) dispatch(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, adminPathPrefix) {
		c.Set(routeKey, routeAdmin)
		writeResponse(c, Response{Status: http.StatusNotFound})
		return
	}

	var body []byte
	if c.Request.Body != nil {
		data, err := io.ReadAll(c.Request.Body)
		c.Request.Body.Close()
		if err != nil {
			s.debugLogger.Printf("Unexpected error trying to read request body: %s", err)
			writeResponse(c, Response{Status: http.StatusInternalServerError, Body: []byte(err.Error())})
			return
		}
		body = data
	}
	req := Request{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Query:    c.Request.URL.Query(),
		Header:   c.Request.Header,
		Body:     body,
	}

	mapping, ok := s.match(req)
	if !ok {
		c.Set(routeKey, routeUnmatched)
		s.debugLogger.Printf("No mapping for %s %s", req.Method, req.URL())
		writeResponse(c, Response{Status: http.StatusNotFound})
		return
	}

	def := mapping.Response
	if def.Transformer == "" {
		c.Set(routeKey, routeStatic)
		s.debugLogger.Printf("%s %s matched %s", req.Method, req.URL(), mapping)
		writeResponse(c, def.static())
		return
	}

	c.Set(routeKey, def.Transformer)
	s.lock.Lock()
	t := s.transformers[def.Transformer]
	s.lock.Unlock()
	if t == nil {
		message := fmt.Sprintf("no transformer registered with name %q", def.Transformer)
		s.logger.Error("mock_transformer_missing", zap.String("transformer", def.Transformer))
		writeResponse(c, Response{Status: http.StatusInternalServerError, Body: []byte(message)})
		return
	}
	resp := t.Transform(req)
	s.debugLogger.Printf("%s %s matched %s, transformer %s returned %d", req.Method, req.URL(), mapping,
		def.Transformer, statusOrDefault(resp.Status))
	writeResponse(c, resp)
}

func (s *Server) match(req Request) (Mapping, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i := len(s.mappings) - 1; i >= 0; i-- {
		if s.mappings[i].matches(req) {
			return s.mappings[i], true
		}
	}
	return Mapping{}, false
}

// writeResponse always commits the header before writing, so that gin never substitutes its
// own default body for an empty 404.
func writeResponse(c *gin.Context, resp Response) {
	h := c.Writer.Header()
	for name, values := range resp.Header {
		for _, v := range values {
			h.Add(name, v)
		}
	}
	c.Status(statusOrDefault(resp.Status))
	c.Writer.WriteHeaderNow()
	if len(resp.Body) > 0 {
		_, _ = c.Writer.Write(resp.Body)
	}
}

func statusOrDefault(status int) int {
	if status == 0 {
		return http.StatusOK
	}
	return status
}

func externalHostPort(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
