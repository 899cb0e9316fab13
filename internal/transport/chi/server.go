// Package chi is the HTTP transport: routing, parameter extraction, and the
// mapping from domain errors to failure envelopes.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/cinelab-io/mflix-api/internal/domain"
	"github.com/cinelab-io/mflix-api/internal/domain/params"
	"github.com/cinelab-io/mflix-api/internal/envelope"
	"github.com/cinelab-io/mflix-api/internal/logger"
	movierepo "github.com/cinelab-io/mflix-api/internal/repository/movie"
	searchrepo "github.com/cinelab-io/mflix-api/internal/repository/search"
	healthuc "github.com/cinelab-io/mflix-api/internal/usecase/health"
	movieuc "github.com/cinelab-io/mflix-api/internal/usecase/movie"
	reportuc "github.com/cinelab-io/mflix-api/internal/usecase/report"
	searchuc "github.com/cinelab-io/mflix-api/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the use case services and the error mapping chain.
type Server struct {
	movies        *movieuc.Service
	reports       *reportuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	movies *movieuc.Service,
	reports *reportuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		movies:  movies,
		reports: reports,
		search:  search,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidObjectID, http.StatusBadRequest, domain.CodeInvalidObjectID),
		sentinelHandler(domain.ErrMovieNotFound, http.StatusNotFound, domain.CodeMovieNotFound),
		sentinelHandler(domain.ErrMissingTitle, http.StatusBadRequest, domain.CodeMissingTitle),
		sentinelHandler(domain.ErrEmptyUpdate, http.StatusBadRequest, domain.CodeEmptyUpdate),
		sentinelHandler(domain.ErrMissingFilter, http.StatusBadRequest, domain.CodeMissingFilter),
		sentinelHandler(domain.ErrEmptyBatch, http.StatusBadRequest, domain.CodeEmptyBatch),
		sentinelHandler(domain.ErrNoSearchParameters, http.StatusBadRequest, domain.CodeNoSearchParameters),
		sentinelHandler(domain.ErrInvalidSearchOperator, http.StatusBadRequest, domain.CodeInvalidSearchOperator),
		sentinelHandler(domain.ErrMissingQuery, http.StatusBadRequest, domain.CodeMissingQuery),
		sentinelHandler(domain.ErrDuplicateKey, http.StatusConflict, domain.CodeDuplicateKey),
		sentinelHandler(domain.ErrDocumentValidation, http.StatusBadRequest, domain.CodeDocumentValidation),
		sentinelHandler(domain.ErrEmbeddingUnauthorized, http.StatusUnauthorized, domain.CodeEmbeddingUnauthorized),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, domain.CodeEmbeddingUnavailable),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/movies", func(m chi.Router) {
			m.Get("/", s.listMovies)
			m.Post("/", s.createMovie)
			m.Put("/", s.updateManyMovies)
			m.Delete("/", s.deleteManyMovies)
			m.Post("/batch", s.createMovieBatch)
			m.Get("/comments/recent", s.recentComments)
			m.Get("/{id}", s.getMovie)
			m.Put("/{id}", s.updateMovie)
			m.Delete("/{id}", s.deleteMovie)
		})
		api.Route("/reports", func(rep chi.Router) {
			rep.Get("/years", s.yearStats)
			rep.Get("/directors", s.directorStats)
		})
		api.Route("/search", func(sr chi.Router) {
			sr.Post("/compound", s.compoundSearch)
			sr.Get("/vector", s.vectorSearch)
		})
	})
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metricsHandler)
}

// listMovies handles GET /api/v1/movies.
func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := listQueryFromRequest(query)

	result, err := s.movies.List(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	movies := result.Movies
	if movies == nil {
		movies = []domain.Movie{}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"movies": movies,
		"pagination": map[string]any{
			"total": result.Total,
			"limit": result.Limit,
			"skip":  result.Skip,
		},
	}, fmt.Sprintf("Found %d movies", result.Total))
}

// createMovie handles POST /api/v1/movies.
func (s *Server) createMovie(w http.ResponseWriter, r *http.Request) {
	var m domain.Movie
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}

	id, err := s.movies.Create(r.Context(), &m)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	m.ID = id
	writeSuccess(w, http.StatusCreated, m, "Movie created successfully")
}

// getMovie handles GET /api/v1/movies/{id}.
func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	m, err := s.movies.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, m, "Movie retrieved successfully")
}

// updateMovie handles PUT /api/v1/movies/{id}.
func (s *Server) updateMovie(w http.ResponseWriter, r *http.Request) {
	var patch bson.M
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}
	delete(patch, "_id")

	result, err := s.movies.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"matchedCount":  result.Matched,
		"modifiedCount": result.Modified,
	}, fmt.Sprintf("Matched %d documents, modified %d documents", result.Matched, result.Modified))
}

// deleteMovie handles DELETE /api/v1/movies/{id}.
func (s *Server) deleteMovie(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.movies.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"deletedCount": deleted,
	}, fmt.Sprintf("Deleted %d documents", deleted))
}

// updateManyMovies handles PUT /api/v1/movies.
func (s *Server) updateManyMovies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs    []string `json:"ids"`
		Update bson.M   `json:"update"`
	}
	// An absent body is treated as an empty request so it maps to the
	// missing-filter validation rather than a decode failure.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}
	delete(req.Update, "_id")

	result, err := s.movies.UpdateBatch(r.Context(), req.IDs, req.Update)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"matchedCount":  result.Matched,
		"modifiedCount": result.Modified,
	}, fmt.Sprintf("Matched %d documents, modified %d documents", result.Matched, result.Modified))
}

// deleteManyMovies handles DELETE /api/v1/movies.
func (s *Server) deleteManyMovies(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter bson.M `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}

	deleted, err := s.movies.DeleteBatch(r.Context(), req.Filter)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"deletedCount": deleted,
	}, fmt.Sprintf("Deleted %d documents", deleted))
}

// createMovieBatch handles POST /api/v1/movies/batch.
func (s *Server) createMovieBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Movies []domain.Movie `json:"movies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}

	ids, err := s.movies.CreateBatch(r.Context(), req.Movies)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{
		"insertedCount": len(ids),
		"insertedIds":   ids,
	}, fmt.Sprintf("Inserted %d documents", len(ids)))
}

// recentComments handles GET /api/v1/movies/comments/recent.
func (s *Server) recentComments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := params.Limit(query.Get("limit"), params.DefaultCommentLimit, params.MaxCommentLimit)

	rows, err := s.reports.RecentComments(r.Context(), query.Get("movieId"), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, rows,
		fmt.Sprintf("Found %d movies with recent comments", len(rows)))
}

// yearStats handles GET /api/v1/reports/years.
func (s *Server) yearStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rows, err := s.reports.YearStats(r.Context(),
		intPtrParam(query.Get("startYear")), intPtrParam(query.Get("endYear")))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, rows,
		fmt.Sprintf("Found statistics for %d years", len(rows)))
}

// directorStats handles GET /api/v1/reports/directors.
func (s *Server) directorStats(w http.ResponseWriter, r *http.Request) {
	limit := params.Limit(r.URL.Query().Get("limit"),
		params.DefaultDirectorLimit, params.MaxDirectorLimit)

	rows, err := s.reports.DirectorStats(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, rows,
		fmt.Sprintf("Found statistics for %d directors", len(rows)))
}

// compoundSearch handles POST /api/v1/search/compound.
func (s *Server) compoundSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Plot      string `json:"plot"`
		FullPlot  string `json:"fullplot"`
		Directors string `json:"directors"`
		Writers   string `json:"writers"`
		Cast      string `json:"cast"`
		Operator  string `json:"operator"`
		Limit     int    `json:"limit"`
		Skip      int    `json:"skip"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), domain.CodeBadRequest, nil)
		return
	}

	op, err := params.ParseSearchOperator(req.Operator)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	limit := req.Limit
	if limit == 0 {
		limit = params.DefaultListLimit
	}
	limit = params.ClampLimit(limit, params.MaxListLimit)
	skip := params.ClampSkip(req.Skip)

	q := searchrepo.CompoundQuery{
		Plot:      req.Plot,
		FullPlot:  req.FullPlot,
		Directors: req.Directors,
		Writers:   req.Writers,
		Cast:      req.Cast,
	}

	result, err := s.search.Compound(r.Context(), q, op, limit, skip)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := result.Results
	if results == nil {
		results = []bson.M{}
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"results": results,
		"pagination": map[string]any{
			"total": result.Total,
			"limit": result.Limit,
			"skip":  result.Skip,
		},
	}, fmt.Sprintf("Found %d matches", result.Total))
}

// vectorSearch handles GET /api/v1/search/vector.
func (s *Server) vectorSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := params.Limit(query.Get("limit"), params.DefaultVectorLimit, params.MaxVectorLimit)

	hits, err := s.search.Vector(r.Context(), query.Get("q"), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"results": hits,
		"count":   len(hits),
	}, fmt.Sprintf("Found %d similar movies", len(hits)))
}

// healthCheck handles GET /health. The health body is not enveloped; probes
// read the status field directly.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// metricsHandler handles GET /metrics.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// listQueryFromRequest normalizes list parameters. Malformed numerics fall
// back silently; only identifiers and operators are fatal elsewhere.
func listQueryFromRequest(query url.Values) movierepo.ListQuery {
	return movierepo.ListQuery{
		Text:      query.Get("q"),
		Genre:     query.Get("genre"),
		Year:      intPtrParam(query.Get("year")),
		MinRating: floatPtrParam(query.Get("minRating")),
		MaxRating: floatPtrParam(query.Get("maxRating")),
		SortBy:    query.Get("sortBy"),
		SortOrder: params.ParseSortOrder(query.Get("sortOrder")),
		Limit:     params.Limit(query.Get("limit"), params.DefaultListLimit, params.MaxListLimit),
		Skip:      params.Skip(query.Get("skip")),
	}
}

func intPtrParam(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func floatPtrParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope.Success(data, message))
}

func writeFailure(w http.ResponseWriter, status int, message, code string, details any) {
	writeJSON(w, status, envelope.Failure(message, code, details))
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidObjectID,
		domain.ErrMovieNotFound,
		domain.ErrMissingTitle,
		domain.ErrEmptyUpdate,
		domain.ErrMissingFilter,
		domain.ErrEmptyBatch,
		domain.ErrNoSearchParameters,
		domain.ErrInvalidSearchOperator,
		domain.ErrMissingQuery,
		domain.ErrDuplicateKey,
		domain.ErrDocumentValidation,
		domain.ErrEmbeddingUnauthorized,
		domain.ErrEmbeddingUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeFailure(w, status, msg, code, nil)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeFailure(w, http.StatusInternalServerError,
		"Internal server error", domain.CodeInternalError, err.Error())
}

// requestLogger prefers the request-scoped logger placed in the context by
// the wide event middleware, falling back to the server logger.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logger.FromContextOr(r.Context(), s.logger)
}
