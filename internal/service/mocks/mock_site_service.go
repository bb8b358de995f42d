package mocks

import (
	"context"

	"gh300site/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSiteService struct {
	mock.Mock
}

func (m *MockSiteService) FeatureCards(ctx context.Context) []model.FeatureCard {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.FeatureCard)
}

func (m *MockSiteService) RepoInfo(ctx context.Context) model.RepoInfo {
	args := m.Called(ctx)
	return args.Get(0).(model.RepoInfo)
}
