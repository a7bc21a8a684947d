package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusCodes(t *testing.T) {
	cause := stderrors.New("cause")
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{ValidationWrap(cause, "bad"), http.StatusBadRequest},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{Upstream(cause, "down"), http.StatusBadGateway},
		{UpstreamFormat(cause, "garbled"), http.StatusBadGateway},
		{Internal("oops"), http.StatusInternalServerError},
		{InternalWrap(cause, "oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if tt.err.StatusCode != tt.want {
			t.Errorf("%s status = %d, want %d", tt.err.Code, tt.err.StatusCode, tt.want)
		}
	}
}

func TestIs(t *testing.T) {
	cause := stderrors.New("refused")
	wrapped := fmt.Errorf("fetch sales: %w", Upstream(cause, "down"))

	if !Is(wrapped, CodeUpstream) {
		t.Error("Is should see through fmt wrapping")
	}
	if Is(wrapped, CodeValidation) {
		t.Error("Is matched the wrong code")
	}
	if Is(cause, CodeUpstream) {
		t.Error("plain errors carry no code")
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("cause should stay reachable through Unwrap")
	}
}

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   ErrorCode
	}{
		{"app error", Validation("year must be between 2020 and 2023"), http.StatusBadRequest, CodeValidation},
		{"wrapped app error", fmt.Errorf("fetch: %w", Upstream(stderrors.New("x"), "down")), http.StatusBadGateway, CodeUpstream},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, logger, tt.err, "req-1")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp struct {
				Success bool `json:"success"`
				Error   struct {
					Code      ErrorCode `json:"code"`
					RequestID string    `json:"request_id"`
				} `json:"error"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Success || resp.Error.Code != tt.wantCode || resp.Error.RequestID != "req-1" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestWriteSuccessWithHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessWithHeaders(w, []int{1, 2}, map[string]string{"Cache-Control": "no-store"})

	if w.Header().Get("Cache-Control") != "no-store" {
		t.Error("custom header missing")
	}
	if got := w.Body.String(); got != `{"data":[1,2],"success":true}`+"\n" {
		t.Errorf("body = %s", got)
	}
}
