// Package server exposes the projection engine and the session over HTTP.
package server

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/config"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/internal/output"
	"github.com/rpgo/lifeplan-simulator/internal/session"
	"github.com/valyala/fasthttp"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ValidateResponse is the body of POST /v1/validate.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// QueryResponse wraps the value selected by a ledger query.
type QueryResponse struct {
	Path   string `json:"path"`
	Result any    `json:"result"`
}

// Server routes HTTP requests to the engine and the session.
type Server struct {
	engine  *calculation.CalculationEngine
	parser  *config.InputParser
	session *session.Session
	logger  calculation.Logger
	// MaxBodyBytes limits request bodies; zero keeps the fasthttp default.
	MaxBodyBytes int

	mu   sync.Mutex
	http *fasthttp.Server
}

// New creates a server. A nil logger discards output.
func New(engine *calculation.CalculationEngine, sess *session.Session, logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Server{engine: engine, parser: config.NewInputParser(), session: sess, logger: logger}
}

// Handler returns the request router.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())
		switch {
		case path == "/healthz" && method == fasthttp.MethodGet:
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		case path == "/v1/projections" && method == fasthttp.MethodPost:
			s.handleProject(ctx)
		case path == "/v1/validate" && method == fasthttp.MethodPost:
			s.handleValidate(ctx)
		case path == "/v1/session" && method == fasthttp.MethodPost:
			s.handleImport(ctx)
		case path == "/v1/session" && method == fasthttp.MethodGet:
			s.handleCurrent(ctx)
		case path == "/v1/session/ledger" && method == fasthttp.MethodGet:
			s.handleLedger(ctx)
		case path == "/v1/session/rerun" && method == fasthttp.MethodPost:
			s.handleRerun(ctx)
		case isRoute(path):
			writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Not found: "+path)
		}
		s.logger.Debugf("%s %s -> %d", method, path, ctx.Response.StatusCode())
	}
}

func isRoute(path string) bool {
	switch path {
	case "/healthz", "/v1/projections", "/v1/validate", "/v1/session", "/v1/session/ledger", "/v1/session/rerun":
		return true
	}
	return false
}

// Serve accepts connections on ln until it is closed.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer().Serve(ln)
}

// ListenAndServe serves on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("lifeplan server listening on %s", addr)
	return s.httpServer().ListenAndServe(addr)
}

// Shutdown stops a running server and waits for open requests to finish.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	hs := s.http
	s.mu.Unlock()
	if hs == nil {
		return nil
	}
	return hs.Shutdown()
}

func (s *Server) httpServer() *fasthttp.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.http == nil {
		s.http = &fasthttp.Server{
			Handler:            s.Handler(),
			Name:               "lifeplan",
			MaxRequestBodySize: s.MaxBodyBytes,
		}
	}
	return s.http
}

func requestFormat(ctx *fasthttp.RequestCtx) config.Format {
	if strings.Contains(strings.ToLower(string(ctx.Request.Header.ContentType())), "yaml") {
		return config.FormatYAML
	}
	return config.FormatJSON
}

func (s *Server) handleProject(ctx *fasthttp.RequestCtx) {
	b, err := s.parser.Parse(ctx.PostBody(), requestFormat(ctx))
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	res, err := s.engine.Run(b)
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	doc := config.NewDocument(res)

	format := string(ctx.QueryArgs().Peek("format"))
	if format == "" {
		writeJSON(ctx, fasthttp.StatusOK, doc)
		return
	}
	data, err := output.Render(doc, format)
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	ctx.SetContentType(contentTypeFor(output.NormalizeFormatName(format)))
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(data)
}

func contentTypeFor(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "yaml":
		return "application/yaml"
	case "csv", "summary-csv":
		return "text/csv; charset=utf-8"
	case "html":
		return "text/html; charset=utf-8"
	case "markdown":
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx) {
	if _, err := s.parser.Parse(ctx.PostBody(), requestFormat(ctx)); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeJSON(ctx, fasthttp.StatusOK, ValidateResponse{Valid: false, Message: ve.Error()})
			return
		}
		writeFailure(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, ValidateResponse{Valid: true})
}

func (s *Server) handleImport(ctx *fasthttp.RequestCtx) {
	doc, err := s.session.Import(ctx, ctx.PostBody(), requestFormat(ctx))
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, doc)
}

func (s *Server) handleCurrent(ctx *fasthttp.RequestCtx) {
	doc, err := s.session.Current()
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, doc)
}

func (s *Server) handleRerun(ctx *fasthttp.RequestCtx) {
	doc, err := s.session.Rerun(ctx)
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, doc)
}

func (s *Server) handleLedger(ctx *fasthttp.RequestCtx) {
	ledger, err := s.session.Ledger()
	if err != nil {
		writeFailure(ctx, err)
		return
	}
	path := string(ctx.QueryArgs().Peek("path"))
	if path == "" {
		writeJSON(ctx, fasthttp.StatusOK, ledger)
		return
	}
	v, err := output.Query(ctx, ledger, path)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, QueryResponse{Path: path, Result: v})
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var ve *domain.ValidationError
	var ce *domain.ComputationError
	switch {
	case errors.As(err, &ve), errors.Is(err, output.ErrUnsupportedFormat):
		return fasthttp.StatusBadRequest
	case errors.As(err, &ce):
		return fasthttp.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoSession):
		return fasthttp.StatusNotFound
	}
	return fasthttp.StatusInternalServerError
}

func writeFailure(ctx *fasthttp.RequestCtx, err error) {
	writeError(ctx, statusFor(err), err.Error())
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(buf.Bytes())
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
