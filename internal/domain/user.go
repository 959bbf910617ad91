package domain

import "time"

type Role string

const (
	// RoleCitizen is stored and transmitted as "user".
	RoleCitizen          Role = "user"
	RoleEnvironmentalOrg Role = "environmental_org"
	RoleAdmin            Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleEnvironmentalOrg, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether the role may manage reports it does not own.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleEnvironmentalOrg
}

type SustainabilityInterest string

const (
	InterestWasteReduction    SustainabilityInterest = "waste_reduction"
	InterestRecycling         SustainabilityInterest = "recycling"
	InterestUrbanGardening    SustainabilityInterest = "urban_gardening"
	InterestCleanEnergy       SustainabilityInterest = "clean_energy"
	InterestWaterConservation SustainabilityInterest = "water_conservation"
	InterestAirQuality        SustainabilityInterest = "air_quality"
)

func (i SustainabilityInterest) Valid() bool {
	switch i {
	case InterestWasteReduction, InterestRecycling, InterestUrbanGardening,
		InterestCleanEnergy, InterestWaterConservation, InterestAirQuality:
		return true
	}
	return false
}

type UserLocation struct {
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Point *Point `json:"coordinates,omitempty"`
}

type PrivacySettings struct {
	ShowOnLeaderboard bool `json:"show_on_leaderboard"`
	PublicProfile     bool `json:"public_profile"`
	ShowLocation      bool `json:"show_location"`
}

func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{ShowOnLeaderboard: true, PublicProfile: true, ShowLocation: true}
}

type NotificationPreferences struct {
	EmailWasteAlerts        bool `json:"email_waste_alerts"`
	EmailCleanupEvents      bool `json:"email_cleanup_events"`
	AIInsightsNotifications bool `json:"ai_insights_notifications"`
	SustainabilityTips      bool `json:"sustainability_tips"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailWasteAlerts:        true,
		EmailCleanupEvents:      true,
		AIInsightsNotifications: true,
		SustainabilityTips:      true,
	}
}

type ActivityCounters struct {
	WasteReportsSubmitted   int32 `json:"waste_reports_submitted"`
	ReportsVerified         int32 `json:"reports_verified"`
	CleanupEventsAttended   int32 `json:"cleanup_events_attended"`
	RecyclingSessionsLogged int32 `json:"recycling_sessions_logged"`
}

type User struct {
	ID                      int32                    `json:"id"`
	Name                    string                   `json:"name"`
	Email                   string                   `json:"email"`
	PasswordHash            string                   `json:"-"`
	Role                    Role                     `json:"role"`
	Bio                     string                   `json:"bio,omitempty"`
	AvatarURL               string                   `json:"avatar,omitempty"`
	Location                UserLocation             `json:"location"`
	Interests               []SustainabilityInterest `json:"sustainability_interests"`
	GreenPoints             int32                    `json:"green_points"`
	Counters                ActivityCounters         `json:"activity"`
	SustainabilityLevel     string                   `json:"sustainability_level"`
	Achievements            []Achievement            `json:"achievements"`
	Privacy                 PrivacySettings          `json:"privacy_settings"`
	NotificationPreferences NotificationPreferences  `json:"notification_preferences"`
	IsVerified              bool                     `json:"is_verified"`
	IsActive                bool                     `json:"is_active"`
	LastLogin               *time.Time               `json:"last_login,omitempty"`
	ResetTokenHash          string                   `json:"-"`
	ResetTokenExpires       *time.Time               `json:"-"`
	CreatedAt               time.Time                `json:"created_at"`
	UpdatedAt               time.Time                `json:"updated_at"`
}

// RefreshLevel re-derives SustainabilityLevel from the activity counters.
func (u *User) RefreshLevel() {
	u.SustainabilityLevel = SustainabilityLevel(u.Counters)
}

// Award applies an activity to the in-memory user. Persistence goes through
// the points repository, which performs the same mutation as an atomic
// increment.
func (u *User) Award(points int32, activity ActivityType) error {
	if points < 0 {
		return Validationf("points must not be negative")
	}
	u.GreenPoints += points
	activity.apply(&u.Counters, 1)
	u.RefreshLevel()
	return nil
}

// UnlockAchievement appends a unless an achievement with the same key is
// already present. It reports whether the list changed.
func (u *User) UnlockAchievement(a Achievement) bool {
	for _, existing := range u.Achievements {
		if existing.Key == a.Key {
			return false
		}
	}
	u.Achievements = append(u.Achievements, a)
	return true
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicView strips fields the viewer is not entitled to see.
func (u *User) PublicView() *User {
	v := *u
	v.Email = ""
	v.LastLogin = nil
	v.NotificationPreferences = NotificationPreferences{}
	if !u.Privacy.ShowLocation {
		v.Location = UserLocation{}
	}
	if !u.Privacy.PublicProfile {
		v.Bio = ""
		v.Interests = nil
		v.Achievements = nil
		v.Location = UserLocation{}
	}
	return &v
}

type LeaderboardWindow string

const (
	LeaderboardAllTime LeaderboardWindow = "all"
	LeaderboardMonthly LeaderboardWindow = "monthly"
	LeaderboardYearly  LeaderboardWindow = "yearly"
)

func (w LeaderboardWindow) Valid() bool {
	switch w {
	case LeaderboardAllTime, LeaderboardMonthly, LeaderboardYearly:
		return true
	}
	return false
}

// Since returns the earliest account creation time included in the window,
// or nil for all-time.
func (w LeaderboardWindow) Since(now time.Time) *time.Time {
	var t time.Time
	switch w {
	case LeaderboardMonthly:
		t = now.AddDate(0, -1, 0)
	case LeaderboardYearly:
		t = now.AddDate(-1, 0, 0)
	default:
		return nil
	}
	return &t
}

type LeaderboardEntry struct {
	Rank                int32  `json:"rank"`
	UserID              int32  `json:"id"`
	Name                string `json:"name"`
	AvatarURL           string `json:"avatar,omitempty"`
	GreenPoints         int32  `json:"green_points"`
	SustainabilityLevel string `json:"sustainability_level"`
}
