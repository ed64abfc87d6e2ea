package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"fclimits/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapDerivesCodeFromDomainSentinel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"invalid parameter", core.NewParameterError(core.ErrInvalidBackground, -1, "must be >= 0"), CodeInvalidInput},
		{"non convergence", core.NewConvergenceError(10, 1, 0.5), CodeNonConvergence},
		{"boundary", core.NewBoundaryError(1, 3, 14), CodeBoundaryExhausted},
		{"plain", fmt.Errorf("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, "upper limit failed")
			assert.Equal(t, tt.code, GetCode(wrapped))
			assert.True(t, stderrors.Is(wrapped, tt.err), "cause must stay reachable")
		})
	}
}

func TestWrapKeepsExistingCode(t *testing.T) {
	inner := ConfigInvalid("FC_ALPHA must be in (0,1)")
	outer := Wrap(inner, "failed to load configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(outer))
	assert.Equal(t, "failed to load configuration: FC_ALPHA must be in (0,1)", outer.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestWithCodeAndHelpers(t *testing.T) {
	err := WithCode(CodeRenderFailed, fmt.Errorf("disk full"))
	assert.Equal(t, CodeRenderFailed, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))

	rf := RenderFailed("png", fmt.Errorf("no font"))
	assert.Equal(t, "png renderer failed: no font", rf.Error())
}
