// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("get lead: %w", ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Lead not found",
		},
		{
			name:        "forbidden",
			err:         fmt.Errorf("update lead: %w", ErrForbidden),
			wantStatus:  http.StatusForbidden,
			wantCode:    "FORBIDDEN",
			wantMessage: "Not authorized to access this lead",
		},
		{
			name:        "invalid input keeps the detail",
			err:         fmt.Errorf("assign lead: user is not an employee: %w", ErrInvalidInput),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "VALIDATION_ERROR",
			wantMessage: "user is not an employee",
		},
		{
			name:       "duplicate",
			err:        fmt.Errorf("create user: %w", ErrDuplicateKey),
			wantStatus: http.StatusBadRequest,
			wantCode:   "CONFLICT",
		},
		{
			name:       "unauthorized",
			err:        ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "app error passes through",
			err:        ValidationError("bad"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "unknown",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err, "lead")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp Response
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success {
				t.Error("success = true on error")
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if tt.wantMessage != "" && resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit, total int
		want               Pagination
	}{
		{1, 10, 0, Pagination{Page: 1, Limit: 10}},
		{1, 10, 25, Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3, HasNextPage: true}},
		{3, 10, 25, Pagination{Page: 3, Limit: 10, Total: 25, TotalPages: 3, HasPrevPage: true}},
		{2, 10, 20, Pagination{Page: 2, Limit: 10, Total: 20, TotalPages: 2, HasPrevPage: true}},
	}

	for _, tt := range tests {
		if got := NewPagination(tt.page, tt.limit, tt.total); got != tt.want {
			t.Errorf("NewPagination(%d, %d, %d) = %+v, want %+v", tt.page, tt.limit, tt.total, got, tt.want)
		}
	}
}
