package httpjson_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/seeyou-app/seeyou/internal/app/system/httpjson"
	"github.com/seeyou-app/seeyou/internal/domain/fault"
)

func TestDecode_UnknownField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"titl":"oops"}`))
	var dst struct {
		Title string `json:"title"`
	}
	err := httpjson.Decode(req, &dst)
	if !errors.Is(err, fault.ErrValidation) {
		t.Errorf("unknown field: got %v, want validation error", err)
	}
}

func TestDecode_OK(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"title":"picnic"}`))
	var dst struct {
		Title string `json:"title"`
	}
	if err := httpjson.Decode(req, &dst); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dst.Title != "picnic" {
		t.Errorf("title %q, want %q", dst.Title, "picnic")
	}
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fault.Validationf("title", "is required"), 400},
		{"unauthenticated", fault.ErrUnauthenticated, 401},
		{"forbidden", fault.ErrForbidden, 403},
		{"not found", fault.ErrNotFound, 404},
		{"duplicate", fault.ErrDuplicateRequest, 409},
		{"invalid transition", fault.ErrInvalidTransition, 409},
		{"wrapped forbidden", fault.PartialFailure(fault.ErrForbidden), 403},
		{"unknown", errors.New("disk on fire"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpjson.Error(rec, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("content type %q", ct)
			}
		})
	}
}

func TestError_InternalDoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	httpjson.Error(rec, errors.New("mongo: connection to 10.0.0.5 refused"))
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Error("internal error detail leaked to the client")
	}
}
