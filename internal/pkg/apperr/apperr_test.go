package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("product")))
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindInsufficientStock, KindOf(InsufficientStock("Pixel 9")))
	assert.Equal(t, KindDuplicate, KindOf(Duplicate("already exists")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("nope")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	assert.Equal(t, KindUnconfigured, KindOf(Unconfigured("stripe")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("db down"))))
}

func TestKindOfUntypedError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrappedError(t *testing.T) {
	inner := NotFound("order")
	wrapped := fmt.Errorf("loading order: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindValidation))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "product not found", MessageOf(NotFound("product")))
	assert.Equal(t, "insufficient stock for Pixel 9", MessageOf(InsufficientStock("Pixel 9")))
	assert.Equal(t, "stripe is not configured", MessageOf(Unconfigured("stripe")))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))

	wrapped := Internal("failed to save order", errors.New("pq: connection refused"))
	assert.Equal(t, "failed to save order", MessageOf(wrapped))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindInternal, "failed to write", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestNewf(t *testing.T) {
	err := Newf(KindValidation, "quantity must be at least %d", 1)
	assert.Equal(t, "quantity must be at least 1", err.Message)
	assert.Equal(t, KindValidation, err.Kind)
}
