package fault_test

import (
	"errors"
	"testing"

	"github.com/seeyou-app/seeyou/internal/domain/fault"
)

func TestValidationErrorMatchesSentinel(t *testing.T) {
	err := fault.Validationf("title", "must be at most %d characters", 100)

	if !errors.Is(err, fault.ErrValidation) {
		t.Errorf("expected errors.Is(err, ErrValidation) to hold for %v", err)
	}

	var ve *fault.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "title" {
		t.Errorf("Field: got %q, want %q", ve.Field, "title")
	}
}

func TestPartialFailureKeepsCause(t *testing.T) {
	cause := errors.New("chat insert failed")
	err := fault.PartialFailure(cause)

	if !errors.Is(err, fault.ErrPartialFailure) {
		t.Errorf("expected errors.Is(err, ErrPartialFailure) to hold for %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected the cause to remain matchable, got %v", err)
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		fault.ErrForbidden,
		fault.ErrInvalidTransition,
		fault.ErrDuplicateRequest,
		fault.ErrNotFound,
		fault.ErrPartialFailure,
		fault.ErrUnauthenticated,
		fault.ErrValidation,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v unexpectedly matches %v", a, b)
			}
		}
	}
}
