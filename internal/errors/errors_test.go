package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"cardiodash/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_MapsDomainSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("bad: %w", core.ErrParse), CodeParseError},
		{core.NewUnknownSourceError("Atlantis"), CodeNotFound},
		{core.NewFetchError("Cleveland", stderrors.New("timeout")), CodeExternalService},
		{core.ErrStaleLoad, CodeStaleLoad},
		{stderrors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		wrapped := Wrap(tt.err, "load failed")
		assert.Equal(t, tt.code, GetCode(wrapped), tt.err.Error())
		assert.True(t, stderrors.Is(wrapped, tt.err))
	}
}

func TestWrap_KeepsExistingCode(t *testing.T) {
	base := TooLarge(256)
	wrapped := Wrap(base, "upload heart.csv")

	assert.Equal(t, CodeTooLarge, GetCode(wrapped))
	assert.Equal(t, "upload heart.csv: upload exceeds 256 bytes", wrapped.Error())
	assert.Equal(t, "upload heart.csv", Message(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeValidationError, stderrors.New("age range inverted"))
	assert.Equal(t, CodeValidationError, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestParseFailed_NoDataMessage(t *testing.T) {
	err := ParseFailed(core.ErrParse)
	assert.Equal(t, "no data: "+core.ErrParse.Error(), err.Error())
	assert.Equal(t, "no data", Message(err))
	assert.Equal(t, CodeParseError, GetCode(err))
	assert.True(t, stderrors.Is(err, core.ErrParse))

	assert.Equal(t, "plain", Message(stderrors.New("plain")))
}

func TestExternalServiceError(t *testing.T) {
	cause := core.NewFetchError("Hungarian", stderrors.New("timeout"))
	err := ExternalServiceError("Hungarian", cause)

	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.Equal(t, "data source Hungarian unavailable", Message(err))
	assert.True(t, stderrors.Is(err, core.ErrFetchFailed))
}
