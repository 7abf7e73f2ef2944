package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// requireJSON is a thin content-negotiation gate over the JSON-only API:
// a request body on a POST/PUT route must be application/json (415
// otherwise) and any Accept header must admit application/json or */*
// (406 otherwise).
func requireJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		if accept := req.Header.Get(echo.HeaderAccept); accept != "" &&
			!strings.Contains(accept, "application/json") && !strings.Contains(accept, "*/*") {
			return writeStatusError(c, http.StatusNotAcceptable, "NotAcceptable", "only application/json is supported")
		}

		if req.ContentLength > 0 {
			if ct := req.Header.Get(echo.HeaderContentType); ct != "" && !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
				return writeStatusError(c, http.StatusUnsupportedMediaType, "UnsupportedMediaType", "only application/json request bodies are supported")
			}
		}

		return next(c)
	}
}

// NewRouter builds an Echo instance with logging/recover/CORS middleware
// and every route from the search, batch, listinfo, refresh, health, and
// admin surfaces registered.
func NewRouter(h *Handlers) *echo.Echo {
	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) { return true, nil },
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(requireJSON)

	e.GET("/health", h.GetHealth)

	v1 := e.Group("/v1")
	v1.GET("/search", h.GetSearch)
	v1.POST("/search/batch", h.PostSearchBatch)
	v1.POST("/search/batch/async", h.PostSearchBatchAsync)
	v1.GET("/search/batch/async/:jobId", h.GetSearchBatchAsyncStatus)
	v1.DELETE("/search/batch/async/:jobId", h.DeleteSearchBatchAsync)
	v1.GET("/search/batch/config", h.GetSearchBatchConfig)
	v1.GET("/listinfo", h.GetListInfo)
	v1.POST("/download/refresh", h.PostDownloadRefresh)
	v1.GET("/download/status", h.GetDownloadStatus)

	admin := e.Group("/admin")
	admin.GET("/config", h.GetAdminConfig)
	admin.PUT("/config/similarity", h.PutAdminConfigSimilarity)
	admin.PUT("/config/weights", h.PutAdminConfigWeights)
	admin.POST("/config/reset", h.PostAdminConfigReset)

	return e
}
