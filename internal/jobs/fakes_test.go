package jobs_test

import (
	"context"

	"reviwa-backend/internal/domain"
)

type fakeLeaderboard struct {
	invalidations int
}

func (f *fakeLeaderboard) Get(context.Context, domain.LeaderboardWindow, int32) ([]domain.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (f *fakeLeaderboard) Set(context.Context, domain.LeaderboardWindow, int32, []domain.LeaderboardEntry) error {
	return nil
}

func (f *fakeLeaderboard) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}
