package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	require.NoError(t, ClassifyError(nil))

	err := ClassifyError(&openai.APIError{HTTPStatusCode: 400})
	require.True(t, errors.Is(err, ErrProviderRejected))

	err = ClassifyError(&openai.APIError{HTTPStatusCode: 429})
	require.True(t, errors.Is(err, ErrProviderUnavailable))

	err = ClassifyError(&openai.APIError{HTTPStatusCode: 503})
	require.True(t, errors.Is(err, ErrProviderUnavailable))

	err = ClassifyError(context.DeadlineExceeded)
	require.True(t, errors.Is(err, ErrProviderUnavailable))
}
