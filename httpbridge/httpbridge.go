// Package httpbridge binds an assembled hyperapi.API to a live HTTP
// listener. It is the "hypermediator" collaborator: it resolves each
// incoming request line to an affordance, invokes the affordance's handler,
// and responds with the assembled hypermedia document in the client's
// negotiated media type.
//
// The bridge deliberately does no routing beyond the (method, URI) to
// affordance mapping and no authentication; both are out of the core's
// scope.
package httpbridge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joeshaw/envdecode"

	"github.com/hypermedia-go/hyperapi"
	"github.com/hypermedia-go/hyperapi/codec"
	"github.com/hypermedia-go/hyperapi/hyper"
	"github.com/hypermedia-go/hyperapi/naval"
)

const requestIDHeader = "X-Request-Id"

// Config for the bridge. Defaults can be loaded via envdecode.
type Config struct {
	// Host to bind. ENV: HYPERAPI_HOST
	Host string `env:"HYPERAPI_HOST,default=127.0.0.1"`
	// Port to bind. ENV: HYPERAPI_PORT
	Port string `env:"HYPERAPI_PORT,default=8080"`
	// ReadHeaderTimeout for the listener. ENV: HYPERAPI_READ_HEADER_TIMEOUT
	ReadHeaderTimeout time.Duration `env:"HYPERAPI_READ_HEADER_TIMEOUT,default=10s"`
	// MaxBodyBytes caps the accepted request payload. ENV: HYPERAPI_MAX_BODY_BYTES
	MaxBodyBytes int64 `env:"HYPERAPI_MAX_BODY_BYTES,default=1048576"`
}

// ConfigFromEnv populates a Config from the environment, with struct-tag
// defaults for anything unset.
func ConfigFromEnv() Config {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return cfg
}

// Handler serves one API over HTTP.
type Handler struct {
	api      *hyperapi.API
	codecs   *codec.Registry
	log      *slog.Logger
	maxBytes int64
}

var _ http.Handler = (*Handler)(nil)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCodecs sets the codec registry used for Accept negotiation. Defaults
// to a registry holding only the NavAL JSON codec.
func WithCodecs(r *codec.Registry) HandlerOption {
	return func(h *Handler) {
		if r != nil {
			h.codecs = r
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithMaxBodyBytes caps the accepted request payload. Values <= 0 are
// ignored.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBytes = n
		}
	}
}

// NewHandler constructs a Handler over an API.
func NewHandler(api *hyperapi.API, opts ...HandlerOption) (*Handler, error) {
	if api == nil {
		return nil, fmt.Errorf("httpbridge: api is required")
	}
	h := &Handler{
		api:      api,
		codecs:   codec.NewRegistry(naval.Codec{}),
		log:      slog.Default(),
		maxBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP resolves the request line to an affordance, runs its handler,
// and writes the assembled document for the handler's response code.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corrID := uuid.NewString()
	w.Header().Set(requestIDHeader, corrID)
	log := h.log.With(slog.String("request_id", corrID), slog.String("method", r.Method), slog.String("uri", r.URL.Path))

	aff := h.api.ResolveRequest(r.Method, r.URL.Path)
	if aff == nil {
		log.Debug("no affordance for request line")
		http.Error(w, "no affordance services this request", http.StatusNotFound)
		return
	}

	wire := h.codecs.Negotiate(r.Header.Get("Accept"))
	if wire == nil {
		log.Debug("no codec satisfies accept header", slog.String("accept", r.Header.Get("Accept")))
		http.Error(w, "no acceptable representation", http.StatusNotAcceptable)
		return
	}

	// Form decoding has to precede the raw read: ParseForm consumes the
	// body for urlencoded submissions, and whatever it leaves behind is the
	// raw payload.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	params := formParams(r, aff)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("request body unreadable", slog.String("err", err.Error()))
		http.Error(w, "unreadable request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		body = nil
	}

	req := &hyper.Request{
		AffordanceID: aff.ID(),
		Method:       r.Method,
		URI:          r.URL.Path,
		Params:       params,
		Body:         body,
	}
	res := aff.Handler()(r.Context(), req)
	if res == nil {
		res = &hyper.Response{Code: "200"}
	}

	doc := h.api.Exchange(aff.ID()).RespondUsing(r.Context(), res.Code, wire)
	payload := doc
	if payload == "" {
		payload = res.Body
	}

	status := http.StatusOK
	if n, err := strconv.Atoi(res.Code); err == nil && n >= 100 && n < 600 {
		status = n
	}
	if doc != "" {
		w.Header().Set("Content-Type", wire.MediaType())
	}
	w.WriteHeader(status)
	if payload != "" {
		if _, err := io.WriteString(w, payload); err != nil {
			log.Debug("response write failed", slog.String("err", err.Error()))
		}
	}
	log.Debug("exchange served", slog.String("affordance_id", aff.ID()), slog.String("code", res.Code))
}

// formParams decodes the request's query and form values, keeping only
// parameters the affordance declares as inputs. Repeated values keep the
// first occurrence.
func formParams(r *http.Request, aff *hyper.Affordance) map[string]any {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	var params map[string]any
	for _, in := range aff.Inputs() {
		vals, ok := r.Form[in.ID()]
		if !ok || len(vals) == 0 {
			continue
		}
		if params == nil {
			params = make(map[string]any)
		}
		params[in.ID()] = vals[0]
	}
	return params
}

// Server is the hosting collaborator: it owns the listener an API is bound
// to.
type Server struct {
	cfg    Config
	opts   []HandlerOption
	log    *slog.Logger
	server *http.Server
}

var _ hyperapi.Hoster = (*Server)(nil)

// NewServer constructs a Server. Handler options are applied to the handler
// built for each hosted API.
func NewServer(cfg Config, opts ...HandlerOption) *Server {
	return &Server{cfg: cfg, opts: opts, log: slog.Default()}
}

// Host implements hyperapi.Hoster: it builds a handler for the API and
// serves it on host:port, blocking until the listener fails or Shutdown is
// called. An empty host or port falls back to the configured values.
func (s *Server) Host(api *hyperapi.API, port, host string) error {
	opts := append([]HandlerOption{WithMaxBodyBytes(s.cfg.MaxBodyBytes)}, s.opts...)
	handler, err := NewHandler(api, opts...)
	if err != nil {
		return err
	}
	if port == "" {
		port = s.cfg.Port
	}
	if host == "" {
		host = s.cfg.Host
	}
	s.server = &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}
	s.log.Info("hosting hypermedia api", slog.String("name", api.Name()), slog.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops a hosted listener. No-op when nothing is
// hosted.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
