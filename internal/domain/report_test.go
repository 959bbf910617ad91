package domain_test

import (
	"strings"
	"testing"
	"time"

	"reviwa-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func validReport() *domain.Report {
	return &domain.Report{
		Title:       "Dumped plastic by the river",
		Description: "Large pile of bottles near the footbridge",
		WasteType:   domain.WasteTypePlastic,
		Severity:    domain.SeverityHigh,
		Location:    domain.NewGeoLocation(domain.Point{Longitude: 32.58, Latitude: 0.31}, "Kampala"),
	}
}

func TestReportValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validReport().Validate())
	})

	cases := map[string]func(r *domain.Report){
		"missing title":       func(r *domain.Report) { r.Title = "   " },
		"long title":          func(r *domain.Report) { r.Title = strings.Repeat("a", 101) },
		"missing description": func(r *domain.Report) { r.Description = "" },
		"bad waste type":      func(r *domain.Report) { r.WasteType = "radioactive" },
		"bad severity":        func(r *domain.Report) { r.Severity = "extreme" },
		"bad longitude":       func(r *domain.Report) { r.Location.Coordinates[0] = 181 },
		"bad latitude":        func(r *domain.Report) { r.Location.Coordinates[1] = -91 },
		"too many images":     func(r *domain.Report) { r.Images = make([]domain.ReportImage, 6) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := validReport()
			mutate(r)
			assert.ErrorIs(t, r.Validate(), domain.ErrValidation)
		})
	}
}

func TestGeoLocationKeepsLngLatOrder(t *testing.T) {
	loc := domain.NewGeoLocation(domain.Point{Longitude: 32.58, Latitude: 0.31}, "")
	assert.Equal(t, "Point", loc.Type)
	assert.Equal(t, [2]float64{32.58, 0.31}, loc.Coordinates)
	assert.InDelta(t, 32.58, loc.Point().Longitude, 1e-9)
	assert.InDelta(t, 0.31, loc.Point().Latitude, 1e-9)
}

func TestReportQueryNormalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q := domain.ReportQuery{}
		assert.NoError(t, q.Normalize())
		assert.Equal(t, int32(1), q.Page)
		assert.Equal(t, int32(domain.DefaultPageLimit), q.Limit)
		assert.Equal(t, int32(0), q.Offset())
	})

	t.Run("caps limit and defaults radius", func(t *testing.T) {
		q := domain.ReportQuery{Page: 3, Limit: 500, Near: &domain.Point{Longitude: 1, Latitude: 1}}
		assert.NoError(t, q.Normalize())
		assert.Equal(t, int32(domain.MaxPageLimit), q.Limit)
		assert.Equal(t, float64(domain.DefaultRadiusMeters), q.RadiusMeters)
		assert.Equal(t, int32(200), q.Offset())
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		q := domain.ReportQuery{Status: "archived"}
		assert.ErrorIs(t, q.Normalize(), domain.ErrValidation)

		q = domain.ReportQuery{Near: &domain.Point{Longitude: 0, Latitude: 0}, RadiusMeters: 1e7}
		assert.ErrorIs(t, q.Normalize(), domain.ErrValidation)
	})
}

func TestNewReportPage(t *testing.T) {
	page := domain.NewReportPage(nil, 41, domain.ReportQuery{Page: 2, Limit: 20})
	assert.NotNil(t, page.Reports)
	assert.Equal(t, int32(3), page.Pages)
	assert.Equal(t, int32(2), page.Page)
}

func TestLeaderboardWindowSince(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, domain.LeaderboardAllTime.Since(now))
	assert.Equal(t, time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC), *domain.LeaderboardMonthly.Since(now))
	assert.Equal(t, time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), *domain.LeaderboardYearly.Since(now))
}

func TestPublicView(t *testing.T) {
	u := &domain.User{
		ID:       1,
		Name:     "Ada",
		Email:    "ada@x.com",
		Bio:      "cleaner",
		Location: domain.UserLocation{City: "Kampala"},
		Privacy:  domain.PrivacySettings{ShowOnLeaderboard: true, PublicProfile: true, ShowLocation: false},
	}

	v := u.PublicView()
	assert.Empty(t, v.Email)
	assert.Empty(t, v.Location.City)
	assert.Equal(t, "cleaner", v.Bio)
	assert.Equal(t, "ada@x.com", u.Email, "original must be untouched")

	u.Privacy.PublicProfile = false
	v = u.PublicView()
	assert.Empty(t, v.Bio)
	assert.Equal(t, "Ada", v.Name)
}

func TestErrorCategoryAndMessage(t *testing.T) {
	err := domain.Conflictf("A user with this email already exists")
	assert.Equal(t, "ConflictError", domain.ErrorCategory(err))
	assert.Equal(t, "A user with this email already exists", domain.Message(err))
	assert.Equal(t, "InternalError", domain.ErrorCategory(assert.AnError))
}
