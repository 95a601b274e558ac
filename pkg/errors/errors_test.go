package errors

import (
	goerrors "errors"
	"net/http"
	"testing"
)

func TestAppError_ErrorString(t *testing.T) {
	plain := NotFound("Booking")
	if want := "NOT_FOUND: Booking not found"; plain.Error() != want {
		t.Errorf("expected %q, got %q", want, plain.Error())
	}

	cause := goerrors.New("disk broke")
	wrapped := Internal("Failed to save", cause)
	if !goerrors.Is(wrapped, cause) {
		t.Error("expected wrapped cause to unwrap")
	}
}

func TestHelpers_CodesAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad seat"), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("seat taken"), CodeConflict, http.StatusConflict},
		{"duplicate booking", DuplicateBooking("already booked"), CodeDuplicateBooking, http.StatusConflict},
		{"validation", Validation("invalid", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"unavailable", Unavailable("webhook"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestAsAppError(t *testing.T) {
	app := Conflict("seat taken")
	if got := AsAppError(app); got != app {
		t.Error("expected the same AppError back")
	}

	plain := goerrors.New("something else")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors mapped to %s, got %s", CodeInternal, got.Code)
	}
	if !goerrors.Is(got, plain) {
		t.Error("expected the original error preserved as cause")
	}

	if !IsAppError(app) || IsAppError(plain) {
		t.Error("IsAppError misclassified")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("invalid", nil).WithDetails(map[string]any{"field": "SeatID"})
	if err.Details["field"] != "SeatID" {
		t.Errorf("expected details preserved, got %+v", err.Details)
	}
}
