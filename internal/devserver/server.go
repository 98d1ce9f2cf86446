package devserver

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/router"
	"github.com/wechange-eg/cosinnus-core-sub001/internal/searchapi"
)

const (
	defaultLimit    = 50
	maxLimit        = 500
	quicksearchSize = 5
)

// Options configures the development endpoint
type Options struct {
	Addr        string
	SearchPath  string // e.g. "/maps/search/"
	QuickPath   string // e.g. "/search/api/quicksearch/"
	Latency     time.Duration
	Fixtures    []byte // nil uses the embedded set
	CorsOrigins []string
	Logger      *slog.Logger
}

// Server serves the map search and quicksearch endpoints from fixtures
type Server struct {
	server  *http.Server
	router  *chi.Mux
	index   *Index
	latency time.Duration
	logger  *slog.Logger
}

// NewServer creates a new development server
func NewServer(opts Options) (*Server, error) {
	fixtures, err := LoadFixtures(opts.Fixtures)
	if err != nil {
		return nil, err
	}
	index, err := NewIndex(fixtures)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.SearchPath == "" {
		opts.SearchPath = "/maps/search/"
	}
	if opts.QuickPath == "" {
		opts.QuickPath = "/search/api/quicksearch/"
	}
	if len(opts.CorsOrigins) == 0 {
		opts.CorsOrigins = []string{"*"}
	}

	s := &Server{
		index:   index,
		latency: opts.Latency,
		logger:  opts.Logger,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "X-Request-ID", "X-Requested-With"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Get(opts.SearchPath, s.handleSearch)
	r.Get(path.Join(opts.SearchPath, "{group}")+"/", s.handleSearch)
	r.Get(opts.QuickPath, s.handleQuicksearch)

	s.router = r
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.logger.Info("development search endpoint listening", "addr", s.server.Addr, "fixtures", s.index.Len())
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the HTTP server and releases the index
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	return errors.Join(err, s.index.Close())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.wait(r.Context()) {
		return
	}

	params := r.URL.Query()
	state, errs := router.DecodeState(params)
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errors.Join(errs...))
		return
	}
	state.FilterGroup = chi.URLParam(r, "group")

	var bounds *domain.Bounds
	if router.HasBounds(params) {
		b, err := router.DecodeBounds(params)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		bounds = &b
	}

	limit, err := parseLimit(params, defaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hits, err := s.index.Match(state.Query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	hits = filterHits(hits, state, bounds)
	s.writePage(w, hits, state.Offset, limit, state.OffsetTimestamp)
}

func (s *Server) handleQuicksearch(w http.ResponseWriter, r *http.Request) {
	if !s.wait(r.Context()) {
		return
	}
	params := r.URL.Query()
	limit, err := parseLimit(params, quicksearchSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text := params.Get(router.ParamQuery)
	if text == "" {
		s.writePage(w, nil, 0, limit, "")
		return
	}
	hits, err := s.index.Match(text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writePage(w, hits, 0, limit, "")
}

// wait applies the configured latency; it reports false when the client went away
func (s *Server) wait(ctx context.Context) bool {
	if s.latency <= 0 {
		return true
	}
	select {
	case <-time.After(s.latency):
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Server) writePage(w http.ResponseWriter, hits []Hit, offset, limit int, offsetTimestamp string) {
	sortHits(hits)

	lastTimestamp := offsetTimestamp
	if lastTimestamp == "" {
		for _, h := range hits {
			lastTimestamp = max(lastTimestamp, h.Timestamp)
		}
	} else {
		// later pages only see records that existed when the first page was served
		hits = slices.DeleteFunc(hits, func(h Hit) bool { return h.Timestamp > offsetTimestamp })
	}
	total := len(hits)

	start := min(offset, len(hits))
	end := min(start+limit, len(hits))
	page := hits[start:end]

	resp := searchapi.Response{
		Count:         total,
		HasMore:       end < len(hits),
		LastTimestamp: lastTimestamp,
		Items:         make([]domain.Result, 0, len(page)),
	}
	for _, h := range page {
		resp.Items = append(resp.Items, h.Result(h.Score))
	}

	body, err := searchapi.EncodeResponse(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func filterHits(hits []Hit, state domain.SearchState, bounds *domain.Bounds) []Hit {
	return slices.DeleteFunc(hits, func(h Hit) bool {
		t := domain.ParseResultType(h.Type)
		if !state.Types[t] {
			return true
		}
		if state.FilterGroup != "" && h.Group != state.FilterGroup {
			return true
		}
		if !intersects(state.Topics, h.Topics) || !intersects(state.SDGs, h.SDGs) ||
			!intersects(state.ManagedTags, h.ManagedTags) {
			return true
		}
		if bounds != nil && h.Lat != nil && h.Lon != nil && !bounds.Contains(*h.Lat, *h.Lon) {
			return true
		}
		return false
	})
}

// intersects reports whether have shares an id with want; an empty want matches everything
func intersects(want, have []int) bool {
	if len(want) == 0 {
		return true
	}
	for _, id := range want {
		if slices.Contains(have, id) {
			return true
		}
	}
	return false
}

func sortHits(hits []Hit) {
	slices.SortStableFunc(hits, func(a, b Hit) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func parseLimit(params url.Values, def int) (int, error) {
	raw := params.Get(router.ParamLimit)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Field: router.ParamLimit, Value: raw, Err: errors.New("must be a positive integer")}
	}
	return min(n, maxLimit), nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// requestLogger logs every request through slog with chi's request id
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", ww.Status(),
			"took", time.Since(start))
	})
}
