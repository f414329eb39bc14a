package mocks

import (
	"context"

	"diffing-research/core/diff"

	"github.com/stretchr/testify/mock"
)

// Surface is a mock implementation of reconcile.Surface
type Surface struct {
	mock.Mock
}

func (m *Surface) Attached() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Surface) PerformBatchUpdates(ctx context.Context, changes diff.Changes) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

func (m *Surface) ReloadData(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
