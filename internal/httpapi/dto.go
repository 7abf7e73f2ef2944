// Package httpapi is the Echo-based HTTP transport: DTOs translating the
// core domain types to and from JSON, and handlers wiring requests into
// SearchService, BatchExecutor, config.Store, and refresh.Orchestrator.
package httpapi

import (
	"time"

	"github.com/watchlist-screening/sanctions-engine/internal/batch"
	"github.com/watchlist-screening/sanctions-engine/internal/entity"
	"github.com/watchlist-screening/sanctions-engine/internal/refresh"
)

// SearchResultDTO is one ranked match in a search response.
type SearchResultDTO struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Type       entity.Type            `json:"type"`
	Source     entity.Source          `json:"source"`
	SourceID   string                 `json:"sourceId,omitempty"`
	Score      float64                `json:"score"`
	AltNames   []string               `json:"altNames,omitempty"`
	Programs   []string               `json:"programs,omitempty"`
	Remarks    string                 `json:"remarks,omitempty"`
	Breakdown  *entity.ScoreBreakdown `json:"breakdown,omitempty"`
}

// SearchResponseDTO is the GET /v1/search response envelope.
type SearchResponseDTO struct {
	Entities     []SearchResultDTO `json:"entities"`
	TotalResults int               `json:"totalResults"`
	RequestID    string            `json:"requestId"`
	Trace        []TraceEventDTO   `json:"trace,omitempty"`
}

// TraceEventDTO is one recorded phase event, JSON-shaped for the wire.
type TraceEventDTO struct {
	Name      string                 `json:"name"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func toSearchResultDTO(r entity.SearchResult, withBreakdown bool) SearchResultDTO {
	dto := SearchResultDTO{
		ID:       r.Entity.ID,
		Name:     r.Entity.PrimaryName,
		Type:     r.Entity.Type,
		Source:   r.Entity.Source,
		SourceID: r.Entity.SourceID,
		Score:    r.Score,
		AltNames: r.Entity.AltNames,
		Programs: r.Entity.SanctionsInfo.Programs,
		Remarks:  r.Entity.SanctionsInfo.Remarks,
	}
	if withBreakdown {
		b := r.Breakdown
		dto.Breakdown = &b
	}
	return dto
}

// BatchItemDTO is one request row in a batch submission.
type BatchItemDTO struct {
	RequestID  string      `json:"requestId"`
	Name       string      `json:"name"`
	EntityType entity.Type `json:"entityType,omitempty"`
	Source     entity.Source `json:"source,omitempty"`
}

// BatchRequestDTO is the body of POST /v1/search/batch and its async twin.
type BatchRequestDTO struct {
	Items        []BatchItemDTO `json:"items"`
	MinMatch     *float64       `json:"minMatch,omitempty"`
	Limit        *int           `json:"limit,omitempty"`
	SourceFilter entity.Source  `json:"sourceFilter,omitempty"`
	TypeFilter   entity.Type    `json:"typeFilter,omitempty"`
}

// BatchItemResultDTO is one item's outcome in a batch response.
type BatchItemResultDTO struct {
	RequestID     string            `json:"requestId"`
	OriginalQuery string            `json:"originalQuery"`
	Status        batch.ItemStatus  `json:"status"`
	ErrorMessage  string            `json:"errorMessage,omitempty"`
	Matches       []SearchResultDTO `json:"matches,omitempty"`
}

// BatchStatisticsDTO mirrors batch.Statistics for the wire.
type BatchStatisticsDTO struct {
	TotalItems            int     `json:"totalItems"`
	ItemsWithMatches      int     `json:"itemsWithMatches"`
	ItemsWithoutMatches   int     `json:"itemsWithoutMatches"`
	ItemsWithErrors       int     `json:"itemsWithErrors"`
	TotalMatchesFound     int     `json:"totalMatchesFound"`
	AverageMatchScore     float64 `json:"averageMatchScore"`
	HighConfidenceCount   int     `json:"highConfidenceCount"`
	MediumConfidenceCount int     `json:"mediumConfidenceCount"`
	LowConfidenceCount    int     `json:"lowConfidenceCount"`
	SuccessRate           float64 `json:"successRate"`
	MatchRate             float64 `json:"matchRate"`
	ProcessingTimeMs      int64   `json:"processingTimeMs"`
}

// BatchResponseDTO is the POST /v1/search/batch response body.
type BatchResponseDTO struct {
	Results    []BatchItemResultDTO `json:"results"`
	Statistics BatchStatisticsDTO   `json:"statistics"`
}

func toBatchResponseDTO(resp batch.Response) BatchResponseDTO {
	results := make([]BatchItemResultDTO, len(resp.Results))
	for i, r := range resp.Results {
		matches := make([]SearchResultDTO, len(r.Matches))
		for j, m := range r.Matches {
			matches[j] = toSearchResultDTO(m, false)
		}
		results[i] = BatchItemResultDTO{
			RequestID: r.RequestID, OriginalQuery: r.OriginalQuery,
			Status: r.Status, ErrorMessage: r.ErrorMessage, Matches: matches,
		}
	}
	s := resp.Statistics
	return BatchResponseDTO{
		Results: results,
		Statistics: BatchStatisticsDTO{
			TotalItems: s.TotalItems, ItemsWithMatches: s.ItemsWithMatches,
			ItemsWithoutMatches: s.ItemsWithoutMatches, ItemsWithErrors: s.ItemsWithErrors,
			TotalMatchesFound: s.TotalMatchesFound, AverageMatchScore: s.AverageMatchScore,
			HighConfidenceCount: s.HighConfidenceCount, MediumConfidenceCount: s.MediumConfidenceCount,
			LowConfidenceCount: s.LowConfidenceCount, SuccessRate: s.SuccessRate,
			MatchRate: s.MatchRate, ProcessingTimeMs: s.ProcessingTimeMs,
		},
	}
}

// AsyncSubmitResponseDTO is returned by POST /v1/search/batch/async.
type AsyncSubmitResponseDTO struct {
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	ItemCount   int       `json:"itemCount"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// AsyncJobResponseDTO is returned by GET /v1/search/batch/async/{jobId}.
type AsyncJobResponseDTO struct {
	JobID     string             `json:"jobId"`
	Status    batch.JobState     `json:"status"`
	Error     string             `json:"error,omitempty"`
	Result    *BatchResponseDTO  `json:"result,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func toAsyncJobResponseDTO(job batch.Job) AsyncJobResponseDTO {
	dto := AsyncJobResponseDTO{JobID: job.ID, Status: job.State, Error: job.Error, UpdatedAt: job.UpdatedAt}
	if job.State == batch.JobCompleted {
		result := toBatchResponseDTO(job.Response)
		dto.Result = &result
	}
	return dto
}

// BatchConfigDTO is the static capabilities response for GET /v1/search/batch/config.
type BatchConfigDTO struct {
	MaxBatchSize     int             `json:"maxBatchSize"`
	DefaultMinMatch  float64         `json:"defaultMinMatch"`
	DefaultLimit     int             `json:"defaultLimit"`
	SupportedSources []entity.Source `json:"supportedSources"`
	SupportedTypes   []entity.Type   `json:"supportedTypes"`
}

// ListInfoDTO is the GET /v1/listinfo response.
type ListInfoDTO struct {
	Sources           []SourceInfoDTO `json:"sources"`
	OverallLastUpdated time.Time      `json:"lastUpdated"`
}

// SourceInfoDTO is one source's contribution, for the wire.
type SourceInfoDTO struct {
	Name        entity.Source `json:"name"`
	EntityCount int           `json:"entityCount"`
	LastUpdated time.Time     `json:"lastUpdated"`
}

// RefreshTriggerResponseDTO is returned by POST /v1/download/refresh.
type RefreshTriggerResponseDTO struct {
	Status    refresh.State `json:"status"`
	StartedAt time.Time     `json:"startedAt"`
}

// RefreshStatusDTO is returned by GET /v1/download/status.
type RefreshStatusDTO struct {
	Status                refresh.State            `json:"status"`
	LastRefresh           time.Time                `json:"lastRefresh"`
	NextScheduledRefresh  *time.Time               `json:"nextScheduledRefresh,omitempty"`
	Sources               []RefreshSourceStatusDTO `json:"sources"`
}

// RefreshSourceStatusDTO is one source's refresh status, for the wire.
type RefreshSourceStatusDTO struct {
	Source      entity.Source `json:"source"`
	LastUpdated time.Time     `json:"lastUpdated"`
	LastError   string        `json:"lastError,omitempty"`
}

// HealthResponseDTO is returned by GET /health.
type HealthResponseDTO struct {
	Status      string `json:"status"`
	EntityCount int    `json:"entityCount"`
}

// ErrorEnvelopeDTO is the uniform error response shape every endpoint uses.
type ErrorEnvelopeDTO struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Status    int       `json:"status"`
	Path      string    `json:"path"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminConfigDTO is the union of SimilarityConfig and WeightConfig for the
// admin surface.
type AdminConfigDTO struct {
	Similarity interface{} `json:"similarity"`
	Weights    interface{} `json:"weights"`
}
