package saierr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sonic-net/sairedis-go/saierr"
)

func TestError_ErrorString_IncludesWrappedCause(t *testing.T) {
	cause := errors.New("boom")
	err := saierr.Wrap(saierr.KindInternal, "save failed", cause)
	assert.Equal(t, "save failed: boom", err.Error())
}

func TestError_ErrorString_NoCause(t *testing.T) {
	err := saierr.New(saierr.KindNotFound, "no rid bound")
	assert.Equal(t, "no rid bound", err.Error())
}

func TestIs_MatchesThroughWrappedErrors(t *testing.T) {
	inner := saierr.New(saierr.KindNotFound, "missing")
	outer := fmt.Errorf("context: %w", inner)
	assert.True(t, saierr.Is(outer, saierr.KindNotFound))
	assert.False(t, saierr.Is(outer, saierr.KindInternal))
}

func TestIs_FalseForPlainError(t *testing.T) {
	assert.False(t, saierr.Is(errors.New("plain"), saierr.KindInternal))
}

func TestErrNoCandidate_IsKindNotFound(t *testing.T) {
	assert.True(t, saierr.Is(saierr.ErrNoCandidate, saierr.KindNotFound))
}

func TestKind_String(t *testing.T) {
	cases := map[saierr.Kind]string{
		saierr.KindInvalidArgument:   "invalid-argument",
		saierr.KindNotFound:          "not-found",
		saierr.KindItemExists:        "item-exists",
		saierr.KindBufferOverflow:    "buffer-overflow",
		saierr.KindNotSupported:      "not-supported",
		saierr.KindNotImplemented:    "not-implemented",
		saierr.KindMetadataViolation: "metadata-violation",
		saierr.KindInternal:          "internal",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
