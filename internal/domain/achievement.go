package domain

import (
	"fmt"
	"time"
)

type AchievementCategory string

const (
	AchievementWasteReporting         AchievementCategory = "waste_reporting"
	AchievementRecycling              AchievementCategory = "recycling"
	AchievementCleanupParticipation   AchievementCategory = "cleanup_participation"
	AchievementAIInsights             AchievementCategory = "ai_insights"
	AchievementSustainabilityChampion AchievementCategory = "sustainability_champion"
)

// Achievement is unique per user by Key.
type Achievement struct {
	Key          string              `json:"key"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Icon         string              `json:"icon,omitempty"`
	Category     AchievementCategory `json:"category"`
	PointsEarned int32               `json:"green_points_earned"`
	EarnedAt     time.Time           `json:"earned_date"`
}

func FirstReportAchievement() Achievement {
	return Achievement{
		Key:         "first_report",
		Title:       "First Report",
		Description: "Submitted your first waste report",
		Icon:        "📍",
		Category:    AchievementWasteReporting,
	}
}

func MilestoneAchievement(m Milestone) Achievement {
	return Achievement{
		Key:          fmt.Sprintf("milestone_%d", m.Points),
		Title:        m.Title,
		Description:  fmt.Sprintf("Reached %d green points", m.Points),
		Icon:         m.Icon,
		Category:     AchievementSustainabilityChampion,
		PointsEarned: m.Points,
	}
}
