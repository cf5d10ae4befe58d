package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	t.Run("validation -> 400", func(t *testing.T) {
		if got := HTTPStatus(Validation("quantity must be at least 1")); got != http.StatusBadRequest {
			t.Fatalf("got %d", got)
		}
	})

	t.Run("not found -> 404", func(t *testing.T) {
		if got := HTTPStatus(NotFound("order %d not found", 7)); got != http.StatusNotFound {
			t.Fatalf("got %d", got)
		}
	})

	t.Run("forbidden -> 403", func(t *testing.T) {
		if got := HTTPStatus(Forbidden("item belongs to another seller")); got != http.StatusForbidden {
			t.Fatalf("got %d", got)
		}
	})

	t.Run("conflict -> 409", func(t *testing.T) {
		if got := HTTPStatus(Conflict("coupon code already exists")); got != http.StatusConflict {
			t.Fatalf("got %d", got)
		}
	})

	t.Run("unclassified -> 500", func(t *testing.T) {
		if got := HTTPStatus(errors.New("boom")); got != http.StatusInternalServerError {
			t.Fatalf("got %d", got)
		}
	})
}

func TestWrappedKindSurvivesFmtErrorf(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NotFound("order not found"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("expected wrapped error to still match ErrNotFound")
	}
	if got := HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("got %d", got)
	}
}
