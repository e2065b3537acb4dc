package handler

import (
	"net/http"
	"testing"

	"github.com/launchlens/pdpaudit/models"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeNavigation, http.StatusBadGateway},
		{models.ErrCodePreflight, http.StatusBadGateway},
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeRateLimited, http.StatusTooManyRequests},
		{models.ErrCodeAnalysisRateLimited, http.StatusTooManyRequests},
		{models.ErrCodeUnauthorized, http.StatusUnauthorized},
		{models.ErrCodeAnalysisFailure, http.StatusBadGateway},
		{models.ErrCodeAnalysisAuthFailure, http.StatusBadGateway},
		{models.ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := mapErrorToStatus(tt.code); got != tt.want {
				t.Errorf("mapErrorToStatus(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	ok := &models.RegionResult{Region: "UK"}
	failed := &models.RegionResult{
		Region: "DE",
		Error:  &models.ErrorDetail{Code: models.ErrCodeTimeout, Message: "timed out"},
	}

	tests := []struct {
		name string
		resp *models.AuditResponse
		want int
	}{
		{
			"all regions ok",
			&models.AuditResponse{Success: true, Results: []*models.RegionResult{ok, ok}},
			http.StatusOK,
		},
		{
			"partial failure",
			&models.AuditResponse{Success: false, Results: []*models.RegionResult{ok, failed}},
			http.StatusMultiStatus,
		},
		{
			"total failure",
			&models.AuditResponse{Success: false, Results: []*models.RegionResult{failed}},
			http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.resp); got != tt.want {
				t.Errorf("statusFor = %d, want %d", got, tt.want)
			}
		})
	}
}
