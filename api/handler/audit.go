package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchlens/pdpaudit/audit"
	"github.com/launchlens/pdpaudit/models"
)

// Audit returns a handler for POST /api/v1/audit.
//
// Orchestration is delegated to the runner; the handler only parses,
// validates, and maps the outcome to an HTTP status:
//
//	all regions completed        → 200
//	some regions failed          → 207 (body carries per-region errors)
//	all regions failed           → status of the first region's error
//	malformed request            → 400
func Audit(runner *audit.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AuditRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AuditResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		resp := runner.Run(c.Request.Context(), &req)
		c.JSON(statusFor(resp), resp)
	}
}

// statusFor picks the response status from the per-region outcomes.
func statusFor(resp *models.AuditResponse) int {
	if resp.Success {
		return http.StatusOK
	}

	failed := 0
	var first *models.ErrorDetail
	for _, r := range resp.Results {
		if r.Error != nil {
			failed++
			if first == nil {
				first = r.Error
			}
		}
	}
	if failed < len(resp.Results) {
		return http.StatusMultiStatus
	}
	if first != nil {
		return mapErrorToStatus(first.Code)
	}
	return http.StatusInternalServerError
}

// mapErrorToStatus translates audit error codes to HTTP status codes.
func mapErrorToStatus(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodePreflight:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited, models.ErrCodeAnalysisRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeAnalysisFailure, models.ErrCodeAnalysisAuthFailure:
		return http.StatusBadGateway // 502: upstream analysis provider failed
	default:
		return http.StatusInternalServerError // 500
	}
}
