package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/timexnorm/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// New / Newf
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"reference date", errors.ErrCodeInvalidReferenceDate, "reference date must be YYYYMMDD"},
		{"domain", errors.ErrCodeUnsupportedDomain, "domain legal is not supported"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestNewf_FormatsMessage(t *testing.T) {
	ae := errors.Newf(errors.ErrCodeInvalidReferenceDate, "got %d characters", 7)
	assert.Equal(t, "got 7 characters", ae.Message)
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.ErrCodeInvalidReferenceDate, "bad date")
	assert.Equal(t, "[TMX_001] bad date", ae.Error())

	withDetail := ae.WithDetail("2012-13-01")
	assert.Equal(t, "[TMX_001] bad date: 2012-13-01", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWithDetail_NilReceiver(t *testing.T) {
	var ae *errors.AppError
	assert.Nil(t, ae.WithDetail("x"))
	assert.Nil(t, ae.WithCause(fmt.Errorf("x")))
}

// ─────────────────────────────────────────────────────────────────────────────
// Wrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "should not matter"))
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	root := stderrors.New("redis down")
	wrapped := errors.Wrap(root, errors.ErrCodeCacheError, "cache lookup failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeCacheError, wrapped.Code)
	assert.Equal(t, root, stderrors.Unwrap(wrapped))
	assert.True(t, stderrors.Is(wrapped, root))
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	inner := errors.New(errors.ErrCodeInvalidReferenceDate, "bad date")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	assert.Equal(t, errors.ErrCodeInvalidReferenceDate, outer.Code)
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	inner := errors.New(errors.ErrCodeInvalidReferenceDate, "bad date")
	outer := errors.Wrap(inner, errors.ErrCodeAnnotationFailed, "document d1")

	assert.Equal(t, errors.ErrCodeAnnotationFailed, outer.Code)
	assert.True(t, errors.IsCode(outer, errors.ErrCodeInvalidReferenceDate))
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain helpers
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_ThroughFmtWrap(t *testing.T) {
	inner := errors.New(errors.ErrCodeUnsupportedDomain, "legal")
	outer := fmt.Errorf("cli: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeUnsupportedDomain))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeInternal))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeEmptyExpression, errors.GetCode(errors.New(errors.ErrCodeEmptyExpression, "")))
}

func TestStack_ContainsCaller(t *testing.T) {
	ae := errors.New(errors.ErrCodeInternal, "boom")
	assert.True(t, strings.Contains(ae.Stack, "errors_test.go"))
}

//Personal.AI order the ending
