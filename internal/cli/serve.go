package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/strut/pkg/cache"
	struterrors "github.com/matzehuels/strut/pkg/errors"
	"github.com/matzehuels/strut/pkg/layout"
	"github.com/matzehuels/strut/pkg/observability"
)

// newServeCmd creates the serve command, which runs the solve HTTP API.
func newServeCmd() *cobra.Command {
	var (
		addr      string
		backend   string
		redisAddr string
		mongoURI  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP solve API",
		Long: `Run an HTTP server exposing the layout solver.

Endpoints:
  GET  /healthz        liveness probe
  POST /api/v1/solve   apportion an extent among rules
  POST /api/v1/split   slice a rectangle into sub-rectangles

Results are cached in the selected backend, keyed by the full request.
The memory backend suits a single instance; redis and mongo share results
across instances.`,
		Example: `  strut serve --addr :8080
  strut serve --cache redis --redis-addr localhost:6379`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openServeCache(ctx, backend, redisAddr, mongoURI)
			if err != nil {
				return err
			}
			defer store.Close()
			return runServe(ctx, addr, store)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "cache", "memory", "cache backend: memory, redis, mongo, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address (with --cache redis)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "mongodb://localhost:27017", "mongodb URI (with --cache mongo)")

	return cmd
}

// openServeCache builds the configured cache backend.
func openServeCache(ctx context.Context, backend, redisAddr, mongoURI string) (cache.Cache, error) {
	switch backend {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, KeyPrefix: appName + ":"})
		if err != nil {
			return nil, err
		}
		return cache.WithRetry(store), nil
	case "mongo":
		store, err := cache.NewMongoCache(ctx, cache.MongoConfig{URI: mongoURI})
		if err != nil {
			return nil, err
		}
		return cache.WithRetry(store), nil
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, struterrors.New(struterrors.ErrCodeInvalidInput,
		"unknown cache backend %q (want memory, redis, mongo, or none)", backend)
}

func runServe(ctx context.Context, addr string, store cache.Cache) error {
	logger := loggerFromContext(ctx)
	s := &server{logger: logger, store: store, keyer: cache.NewDefaultKeyer()}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// server carries the handler dependencies.
type server struct {
	logger *log.Logger
	store  cache.Cache
	keyer  cache.Keyer
}

// routes assembles the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/split", s.handleSplit)
	})
	return r
}

// requestID tags every request with a UUID, echoed in the X-Request-ID
// header and attached to log lines.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// observe emits HTTP hooks and access logs.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		loggerFromContext(r.Context()).Debug("request",
			"method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "elapsed", elapsed.Round(time.Microsecond))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// solveAPIRequest is the POST /api/v1/solve body.
type solveAPIRequest struct {
	Rules   []string `json:"rules"`
	Total   int      `json:"total"`
	Spacing int      `json:"spacing"`
	Flex    string   `json:"flex"`
}

// solveAPIResponse is the solve response body.
type solveAPIResponse struct {
	Sizes  []int `json:"sizes"`
	Cached bool  `json:"cached"`
}

func (s *server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, struterrors.Wrap(struterrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Flex == "" {
		req.Flex = "stretch"
	}

	rules, flex, err := validateSolveRequest(req.Rules, req.Total, req.Spacing, req.Flex)
	if err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	key := s.keyer.SolveKey(ruleStrings(rules), cache.SolveKeyOpts{
		Total:   req.Total,
		Spacing: req.Spacing,
		Flex:    flex.String(),
	})

	var sizes []int
	if data, hit, cacheErr := s.store.Get(ctx, key); cacheErr == nil && hit {
		if json.Unmarshal(data, &sizes) == nil {
			observability.Cache().OnCacheHit(ctx, "solve")
			writeJSON(w, http.StatusOK, solveAPIResponse{Sizes: sizes, Cached: true})
			return
		}
	}
	observability.Cache().OnCacheMiss(ctx, "solve")

	sizes, err = layout.Solve(rules, req.Total, req.Spacing, flex)
	if err != nil {
		writeError(w, struterrors.Wrap(struterrors.ErrCodeInternal, err, "solve"))
		return
	}
	if data, err := json.Marshal(sizes); err == nil {
		if s.store.Set(ctx, key, data, 24*time.Hour) == nil {
			observability.Cache().OnCacheSet(ctx, "solve", len(data))
		}
	}
	writeJSON(w, http.StatusOK, solveAPIResponse{Sizes: sizes})
}

// splitAPIRequest is the POST /api/v1/split body.
type splitAPIRequest struct {
	Area      rectJSON `json:"area"`
	Direction string   `json:"direction"`
	Rules     []string `json:"rules"`
	Spacing   int      `json:"spacing"`
	Flex      string   `json:"flex"`
}

// rectJSON mirrors layout.Rect with lowercase JSON keys.
type rectJSON struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// splitAPIResponse is the split response body.
type splitAPIResponse struct {
	Rects  []rectJSON `json:"rects"`
	Cached bool       `json:"cached"`
}

func (s *server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitAPIRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, struterrors.Wrap(struterrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Flex == "" {
		req.Flex = "stretch"
	}
	if req.Direction == "" {
		req.Direction = "horizontal"
	}

	extent := req.Area.Width
	dir, err := layout.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, struterrors.Wrap(struterrors.ErrCodeInvalidDirection, err, "parse direction"))
		return
	}
	if dir == layout.Vertical {
		extent = req.Area.Height
	}

	rules, flex, err := validateSolveRequest(req.Rules, extent, req.Spacing, req.Flex)
	if err != nil {
		writeError(w, err)
		return
	}

	area := layout.Rect{X: req.Area.X, Y: req.Area.Y, Width: req.Area.Width, Height: req.Area.Height}
	ctx := r.Context()
	key := s.keyer.SplitKey(area.String(), dir.String(), ruleStrings(rules), cache.SolveKeyOpts{
		Spacing: req.Spacing,
		Flex:    flex.String(),
	})

	var rects []rectJSON
	if data, hit, cacheErr := s.store.Get(ctx, key); cacheErr == nil && hit {
		if json.Unmarshal(data, &rects) == nil {
			observability.Cache().OnCacheHit(ctx, "split")
			writeJSON(w, http.StatusOK, splitAPIResponse{Rects: rects, Cached: true})
			return
		}
	}
	observability.Cache().OnCacheMiss(ctx, "split")

	out, err := layout.Split(area, dir, rules, req.Spacing, flex)
	if err != nil {
		writeError(w, struterrors.Wrap(struterrors.ErrCodeInternal, err, "split"))
		return
	}
	rects = make([]rectJSON, len(out))
	for i, rect := range out {
		rects[i] = rectJSON{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}
	}
	if data, err := json.Marshal(rects); err == nil {
		if s.store.Set(ctx, key, data, 24*time.Hour) == nil {
			observability.Cache().OnCacheSet(ctx, "split", len(data))
		}
	}
	writeJSON(w, http.StatusOK, splitAPIResponse{Rects: rects})
}

// validateSolveRequest validates shared request fields and parses the
// rules and flex policy.
func validateSolveRequest(ruleSpecs []string, total, spacing int, flexName string) ([]layout.Rule, layout.Flex, error) {
	if err := struterrors.ValidateRuleCount(len(ruleSpecs)); err != nil {
		return nil, 0, err
	}
	if err := struterrors.ValidateTotal(total); err != nil {
		return nil, 0, err
	}
	if err := struterrors.ValidateSpacing(spacing); err != nil {
		return nil, 0, err
	}
	flex, err := layout.ParseFlex(flexName)
	if err != nil {
		return nil, 0, struterrors.Wrap(struterrors.ErrCodeInvalidFlex, err, "parse flex")
	}
	rules, err := parseRules(ruleSpecs)
	if err != nil {
		return nil, 0, err
	}
	return rules, flex, nil
}

// apiError is the JSON error envelope.
type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps structured errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := struterrors.GetCode(err)
	switch code {
	case struterrors.ErrCodeInvalidInput, struterrors.ErrCodeInvalidRule,
		struterrors.ErrCodeInvalidTotal, struterrors.ErrCodeInvalidFlex,
		struterrors.ErrCodeInvalidDirection, struterrors.ErrCodeInvalidSpec,
		struterrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case struterrors.ErrCodeNotFound, struterrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	if code == "" {
		code = struterrors.ErrCodeInternal
	}
	writeJSON(w, status, apiError{Error: apiErrorBody{
		Code:    string(code),
		Message: struterrors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
