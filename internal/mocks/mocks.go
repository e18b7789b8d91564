// Package mocks provides testify mocks for the recipe service collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-genai/backend/internal/history"
	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// MockModelClient is a mock implementation of the model client
type MockModelClient struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockModelClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockHistoryRecorder is a mock implementation of the history recorder
type MockHistoryRecorder struct {
	mock.Mock
}

// Record mocks the Record method
func (m *MockHistoryRecorder) Record(ctx context.Context, rec *history.GenerationRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// MockArchiver is a mock implementation of the recipe archive
type MockArchiver struct {
	mock.Mock
}

// Put mocks the Put method
func (m *MockArchiver) Put(ctx context.Context, key string, recipe types.Recipe) error {
	args := m.Called(ctx, key, recipe)
	return args.Error(0)
}
