package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

type mockCollaborator struct {
	mock.Mock
}

func (m *mockCollaborator) Synthesize(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.LLMResponse), args.Error(1)
}

func testResilientLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func TestResilientCollaborator_UsesPrimaryOnSuccess(t *testing.T) {
	primary := new(mockCollaborator)
	fallback := new(mockCollaborator)
	want := domain.LLMResponse{Insights: []domain.LLMInsight{{Category: "metabolic"}}}
	primary.On("Synthesize", mock.Anything, mock.Anything).Return(want, nil)

	rc := NewResilientCollaborator(primary, fallback, testResilientLogger())
	got, err := rc.Synthesize(context.Background(), domain.LLMRequest{})

	require.NoError(t, err)
	assert.Equal(t, want, got)
	fallback.AssertNotCalled(t, "Synthesize", mock.Anything, mock.Anything)
}

func TestResilientCollaborator_FallsBackOnPrimaryError(t *testing.T) {
	primary := new(mockCollaborator)
	fallback := new(mockCollaborator)
	primary.On("Synthesize", mock.Anything, mock.Anything).Return(domain.LLMResponse{}, errors.New("network error"))
	want := domain.LLMResponse{Insights: []domain.LLMInsight{{Category: "fallback"}}}
	fallback.On("Synthesize", mock.Anything, mock.Anything).Return(want, nil)

	rc := NewResilientCollaborator(primary, fallback, testResilientLogger())
	got, err := rc.Synthesize(context.Background(), domain.LLMRequest{})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
