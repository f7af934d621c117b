package openai

import (
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	domai "github.com/safetylens/safetylens/internal/domain/analysis"
)

func TestClassifyProviderErrorTyped(t *testing.T) {
	authErr := &openai.APIError{HTTPStatusCode: 401, Message: "Incorrect credentials supplied"}
	assert.True(t, errors.Is(classifyProviderError(authErr), domai.ErrInvalidAPIKey))

	quotaErr := &openai.APIError{HTTPStatusCode: 429, Message: "Rate limit reached"}
	assert.True(t, errors.Is(classifyProviderError(quotaErr), domai.ErrQuotaExceeded))
}

func TestClassifyProviderErrorSubstringFallback(t *testing.T) {
	assert.True(t, errors.Is(
		classifyProviderError(errors.New("provider rejected the API key")),
		domai.ErrInvalidAPIKey))

	assert.True(t, errors.Is(
		classifyProviderError(errors.New("you have exceeded your quota")),
		domai.ErrQuotaExceeded))
}

func TestClassifyProviderErrorGeneric(t *testing.T) {
	err := classifyProviderError(errors.New("connection reset by peer"))
	assert.False(t, errors.Is(err, domai.ErrInvalidAPIKey))
	assert.False(t, errors.Is(err, domai.ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "failed to create chat completion")
}
