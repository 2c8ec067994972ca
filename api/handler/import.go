package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/use-agent/ladle/cache"
	"github.com/use-agent/ladle/models"
	"github.com/use-agent/ladle/monitoring"
	"github.com/use-agent/ladle/pipeline"
)

// Import returns a handler for POST /api/v1/import.
//
// Orchestration flow:
//  1. Parse & validate request.
//  2. Cache lookup (only when the client opted in via max_age).
//  3. pipeline.Import → Recipe | typed error.
//  4. Assign id/created_at at the persistence boundary; the pipeline
//     itself never does.
//  5. Fill timing, record metrics, respond.
func Import(imp *pipeline.Importer, cc *cache.Cache, metrics *monitoring.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ImportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ImportResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		// ── 2. Cache lookup ─────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			cacheKey := cache.Key(req.URL)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				// The stored response is shared between concurrent hits;
				// stamp status and timing on a copy, never through the
				// cached pointer.
				hitResp := *cached
				hitResp.CacheStatus = "hit"
				hitResp.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, &hitResp)
				return
			}
		}

		// ── 3. Run the pipeline ─────────────────────────────────────
		result, err := imp.Import(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err, metrics, time.Since(totalStart))
			return
		}

		// ── 4. Persistence-boundary fields ──────────────────────────
		result.Recipe.ID = uuid.NewString()
		result.Recipe.CreatedAt = time.Now().UTC()

		// ── 5. Assemble response ────────────────────────────────────
		resp := &models.ImportResponse{
			Success:   true,
			Recipe:    result.Recipe,
			FinalURL:  result.FinalURL,
			Extractor: result.Extractor,
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				FetchMs:   result.FetchDuration.Milliseconds(),
				ExtractMs: result.ExtractDuration.Milliseconds(),
			},
		}

		if cc != nil && req.MaxAge > 0 {
			// Store a copy for the same reason: resp is about to be
			// marshalled and must stay ours alone.
			stored := *resp
			cc.Set(cache.Key(req.URL), &stored)
			resp.CacheStatus = "miss"
		}

		if metrics != nil {
			metrics.ObserveImport("success", result.Extractor, time.Since(totalStart))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an ImportError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, metrics *monitoring.Metrics, elapsed time.Duration) {
	importErr, ok := err.(*models.ImportError)
	if !ok {
		importErr = models.NewImportError(models.ErrCodeInternal, err.Error(), err)
	}

	if metrics != nil {
		metrics.ObserveImport(importErr.Code, "", elapsed)
	}

	c.JSON(mapErrorToStatus(importErr), models.ImportResponse{
		Success: false,
		Error:   importErr.ToDetail(),
		Timing:  models.TimingInfo{TotalMs: elapsed.Milliseconds()},
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ImportError) int {
	switch e.Code {
	case models.ErrCodeInvalidURL, models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeFetchFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
