package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/watchlist-screening/sanctions-engine/internal/apperr"
	"github.com/watchlist-screening/sanctions-engine/internal/batch"
	"github.com/watchlist-screening/sanctions-engine/internal/config"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/index"
	"github.com/watchlist-screening/sanctions-engine/internal/refresh"
	"github.com/watchlist-screening/sanctions-engine/internal/search"
	"github.com/watchlist-screening/sanctions-engine/internal/trace"
)

// Handlers bundles every collaborator the HTTP surface needs. One instance
// is shared across all requests; every field is itself safe for concurrent
// use.
type Handlers struct {
	Search      *search.Service
	Executor    *batch.Executor
	Async       *batch.AsyncExecutor
	Index       *index.Index
	Config      *config.Store
	Refresh     *refresh.Orchestrator
	Traces      *trace.Store
	Log         *zap.Logger
	SupportedSources []entity.Source
	SupportedTypes   []entity.Type
}

// writeError renders an apperr.Error (or wraps any other error as Internal)
// into the uniform error envelope.
func (h *Handlers) writeError(c echo.Context, err error) error {
	appErr, ok := apperr.AsError(err)
	if !ok {
		appErr = apperr.Internal(err, "unexpected error")
	}
	if h.Log != nil && appErr.Kind == apperr.KindInternal {
		h.Log.Error("request failed", zap.Error(appErr), zap.String("path", c.Request().URL.Path))
	}
	return c.JSON(appErr.StatusCode(), ErrorEnvelopeDTO{
		Error:     string(appErr.Kind),
		Message:   appErr.Error(),
		Status:    appErr.StatusCode(),
		Path:      c.Request().URL.Path,
		RequestID: requestID(c),
		Timestamp: time.Now(),
	})
}

func (h *Handlers) supportsSource(s entity.Source) bool {
	for _, v := range h.SupportedSources {
		if v == s {
			return true
		}
	}
	return false
}

func (h *Handlers) supportsType(t entity.Type) bool {
	for _, v := range h.SupportedTypes {
		if v == t {
			return true
		}
	}
	return false
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}

// writeStatusError renders a plain error envelope at an explicit HTTP
// status, for error conditions apperr.Kind has no status mapping for
// (413 oversized batch, 429 refresh already in progress).
func writeStatusError(c echo.Context, status int, kind, message string) error {
	return c.JSON(status, ErrorEnvelopeDTO{
		Error:     kind,
		Message:   message,
		Status:    status,
		Path:      c.Request().URL.Path,
		RequestID: requestID(c),
		Timestamp: time.Now(),
	})
}

// GetSearch handles GET /v1/search.
func (h *Handlers) GetSearch(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return h.writeError(c, apperr.Invalid("name is required"))
	}
	if h.Index.Count() == 0 {
		return h.writeError(c, apperr.StillLoading("watchlist data is still loading"))
	}

	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return h.writeError(c, apperr.Invalid("limit must be a non-negative integer"))
		}
		limit = parsed
	}

	minMatch := h.Config.Get().Weights.MinimumScore
	if v := c.QueryParam("minMatch"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return h.writeError(c, apperr.Invalid("minMatch must be in [0,1]"))
		}
		minMatch = parsed
	}

	wantTrace := false
	if v := c.QueryParam("trace"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return h.writeError(c, apperr.Invalid("trace must be a boolean"))
		}
		wantTrace = parsed
	}

	filters := search.Filters{
		Source: entity.Source(c.QueryParam("source")),
		Type:   entity.Type(c.QueryParam("type")),
	}
	if filters.Source != "" && !h.supportsSource(filters.Source) {
		return h.writeError(c, apperr.Invalidf("unknown source %q", filters.Source))
	}
	if filters.Type != "" && !h.supportsType(filters.Type) {
		return h.writeError(c, apperr.Invalidf("unknown type %q", filters.Type))
	}

	tr := trace.New(wantTrace)
	query := &entity.QueryEntity{PrimaryName: name}
	results := h.Search.Search(query, filters, search.Options{Limit: limit, MinMatch: minMatch}, tr)

	reqID := requestID(c)
	dtos := make([]SearchResultDTO, len(results))
	for i, r := range results {
		dtos[i] = toSearchResultDTO(r, wantTrace)
	}

	resp := SearchResponseDTO{Entities: dtos, TotalResults: len(dtos), RequestID: reqID}
	if wantTrace {
		events := tr.Events()
		resp.Trace = make([]TraceEventDTO, len(events))
		for i, e := range events {
			resp.Trace[i] = TraceEventDTO{Name: e.Name, Data: e.Data, Timestamp: e.Timestamp}
		}
		h.Traces.Put(reqID, events)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handlers) toBatchItems(dto BatchRequestDTO) []batch.Item {
	items := make([]batch.Item, len(dto.Items))
	for i, it := range dto.Items {
		items[i] = batch.Item{RequestID: it.RequestID, Name: it.Name, EntityType: it.EntityType, Source: it.Source}
	}
	return items
}

func (h *Handlers) batchOptions(dto BatchRequestDTO) batch.Options {
	minMatch := h.Config.Get().Weights.MinimumScore
	if dto.MinMatch != nil {
		minMatch = *dto.MinMatch
	}
	limit := 10
	if dto.Limit != nil {
		limit = *dto.Limit
	}
	return batch.Options{
		Filters:    search.Filters{Source: dto.SourceFilter, Type: dto.TypeFilter},
		SearchOpts: search.Options{Limit: limit, MinMatch: minMatch},
	}
}

// PostSearchBatch handles POST /v1/search/batch.
func (h *Handlers) PostSearchBatch(c echo.Context) error {
	var body BatchRequestDTO
	if err := c.Bind(&body); err != nil {
		return h.writeError(c, apperr.Invalid("malformed batch request body"))
	}
	if len(body.Items) == 0 {
		return h.writeError(c, apperr.Invalid("items must not be empty"))
	}
	if len(body.Items) > batch.MaxBatchSize {
		return writeStatusError(c, http.StatusRequestEntityTooLarge, "BatchTooLarge",
			apperr.Invalidf("batch size %d exceeds maximum %d", len(body.Items), batch.MaxBatchSize).Error())
	}
	if h.Index.Count() == 0 {
		return h.writeError(c, apperr.StillLoading("watchlist data is still loading"))
	}

	resp, err := h.Executor.Screen(c.Request().Context(), h.toBatchItems(body), h.batchOptions(body))
	if err != nil {
		return h.writeError(c, apperr.Wrap(err, apperr.KindInvalidInput, "batch screening failed"))
	}
	return c.JSON(http.StatusOK, toBatchResponseDTO(resp))
}

// PostSearchBatchAsync handles POST /v1/search/batch/async.
func (h *Handlers) PostSearchBatchAsync(c echo.Context) error {
	var body BatchRequestDTO
	if err := c.Bind(&body); err != nil {
		return h.writeError(c, apperr.Invalid("malformed batch request body"))
	}
	if len(body.Items) == 0 {
		return h.writeError(c, apperr.Invalid("items must not be empty"))
	}
	if len(body.Items) > batch.MaxBatchSize {
		return writeStatusError(c, http.StatusRequestEntityTooLarge, "BatchTooLarge",
			apperr.Invalidf("batch size %d exceeds maximum %d", len(body.Items), batch.MaxBatchSize).Error())
	}
	if h.Index.Count() == 0 {
		return h.writeError(c, apperr.StillLoading("watchlist data is still loading"))
	}

	jobID := h.Async.Submit(h.toBatchItems(body), h.batchOptions(body))
	return c.JSON(http.StatusOK, AsyncSubmitResponseDTO{
		JobID: jobID, Status: string(batch.JobPending), ItemCount: len(body.Items), SubmittedAt: time.Now(),
	})
}

// GetSearchBatchAsyncStatus handles GET /v1/search/batch/async/{jobId}.
func (h *Handlers) GetSearchBatchAsyncStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	job, ok := h.Async.Status(jobID)
	if !ok {
		return h.writeError(c, apperr.NotFound("batch job"))
	}
	return c.JSON(http.StatusOK, toAsyncJobResponseDTO(job))
}

// DeleteSearchBatchAsync handles DELETE /v1/search/batch/async/{jobId}.
// Cancellation is cooperative: in-flight items finish, no new items start.
// Cancelling an already-terminal job is a no-op that reports its state.
func (h *Handlers) DeleteSearchBatchAsync(c echo.Context) error {
	jobID := c.Param("jobId")
	if _, ok := h.Async.Status(jobID); !ok {
		return h.writeError(c, apperr.NotFound("batch job"))
	}
	h.Async.Cancel(jobID)
	job, _ := h.Async.Status(jobID)
	return c.JSON(http.StatusOK, toAsyncJobResponseDTO(job))
}

// GetSearchBatchConfig handles GET /v1/search/batch/config.
func (h *Handlers) GetSearchBatchConfig(c echo.Context) error {
	cfg := h.Config.Get()
	return c.JSON(http.StatusOK, BatchConfigDTO{
		MaxBatchSize:     batch.MaxBatchSize,
		DefaultMinMatch:  cfg.Weights.MinimumScore,
		DefaultLimit:     10,
		SupportedSources: h.SupportedSources,
		SupportedTypes:   h.SupportedTypes,
	})
}

// GetListInfo handles GET /v1/listinfo.
func (h *Handlers) GetListInfo(c echo.Context) error {
	sources, overall := h.Index.ListInfo()
	dto := ListInfoDTO{OverallLastUpdated: overall}
	for _, s := range sources {
		dto.Sources = append(dto.Sources, SourceInfoDTO{Name: s.Name, EntityCount: s.EntityCount, LastUpdated: s.LastUpdated})
	}
	return c.JSON(http.StatusOK, dto)
}

// PostDownloadRefresh handles POST /v1/download/refresh.
func (h *Handlers) PostDownloadRefresh(c echo.Context) error {
	if err := h.Refresh.Trigger(context.Background()); err != nil {
		if err == refresh.ErrAlreadyRefreshing {
			return writeStatusError(c, http.StatusTooManyRequests, "RefreshInProgress", err.Error())
		}
		return h.writeError(c, apperr.Internal(err, "failed to trigger refresh"))
	}
	return c.JSON(http.StatusOK, RefreshTriggerResponseDTO{Status: refresh.StateRefreshing, StartedAt: time.Now()})
}

// GetDownloadStatus handles GET /v1/download/status.
func (h *Handlers) GetDownloadStatus(c echo.Context) error {
	status := h.Refresh.Status()
	dto := RefreshStatusDTO{Status: status.State, LastRefresh: status.LastRefresh}
	for _, s := range status.Sources {
		dto.Sources = append(dto.Sources, RefreshSourceStatusDTO{Source: s.Source, LastUpdated: s.LastUpdated, LastError: s.LastError})
	}
	return c.JSON(http.StatusOK, dto)
}

// GetHealth handles GET /health.
func (h *Handlers) GetHealth(c echo.Context) error {
	status := "healthy"
	if h.Index.Count() == 0 {
		status = "starting"
	}
	return c.JSON(http.StatusOK, HealthResponseDTO{Status: status, EntityCount: h.Index.Count()})
}

// GetAdminConfig handles GET /admin/config.
func (h *Handlers) GetAdminConfig(c echo.Context) error {
	cfg := h.Config.Get()
	return c.JSON(http.StatusOK, AdminConfigDTO{Similarity: cfg.Similarity, Weights: cfg.Weights})
}

// PutAdminConfigSimilarity handles PUT /admin/config/similarity.
func (h *Handlers) PutAdminConfigSimilarity(c echo.Context) error {
	var sim config.SimilarityConfig
	if err := c.Bind(&sim); err != nil {
		return h.writeError(c, apperr.Invalid("malformed similarity config"))
	}
	if err := h.Config.ReplaceSimilarity(sim); err != nil {
		return h.writeError(c, apperr.Wrap(err, apperr.KindInvalidInput, "invalid similarity config"))
	}
	if h.Log != nil {
		h.Log.Info("similarity config updated",
			zap.String("requestId", requestID(c)),
			zap.Float64("boostThreshold", sim.JaroWinklerBoostThreshold),
			zap.Int("prefixSize", sim.JaroWinklerPrefixSize),
			zap.Bool("phoneticFilteringDisabled", sim.PhoneticFilteringDisabled),
			zap.Bool("keepStopwords", sim.KeepStopwords))
	}
	return c.JSON(http.StatusOK, h.Config.Get().Similarity)
}

// PutAdminConfigWeights handles PUT /admin/config/weights.
func (h *Handlers) PutAdminConfigWeights(c echo.Context) error {
	var w config.WeightConfig
	if err := c.Bind(&w); err != nil {
		return h.writeError(c, apperr.Invalid("malformed weight config"))
	}
	if err := h.Config.ReplaceWeights(w); err != nil {
		return h.writeError(c, apperr.Wrap(err, apperr.KindInvalidInput, "invalid weight config"))
	}
	if h.Log != nil {
		h.Log.Info("weight config updated",
			zap.String("requestId", requestID(c)),
			zap.Float64("nameWeight", w.NameWeight),
			zap.Float64("addressWeight", w.AddressWeight),
			zap.Float64("criticalIdWeight", w.CriticalIDWeight),
			zap.Float64("minimumScore", w.MinimumScore))
	}
	return c.JSON(http.StatusOK, h.Config.Get().Weights)
}

// PostAdminConfigReset handles POST /admin/config/reset.
func (h *Handlers) PostAdminConfigReset(c echo.Context) error {
	if err := h.Config.Reset(); err != nil {
		return h.writeError(c, apperr.Internal(err, "failed to reset config"))
	}
	if h.Log != nil {
		h.Log.Info("config reset to defaults", zap.String("requestId", requestID(c)))
	}
	return c.JSON(http.StatusOK, h.Config.Get())
}
