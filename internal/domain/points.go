package domain

import "time"

type ActivityType string

const (
	ActivityWelcomeBonus         ActivityType = "welcome_bonus"
	ActivityWasteReportSubmitted ActivityType = "waste_report_submitted"
	ActivityReportVerified       ActivityType = "report_verified"
	ActivityReportResolved       ActivityType = "report_resolved"
	ActivityCleanupEventAttended ActivityType = "cleanup_event_attended"
	ActivityRecyclingLogged      ActivityType = "recycling_logged"
)

// Fixed point values for the activities the platform awards automatically.
const (
	PointsWelcomeBonus    int32 = 10
	PointsReportSubmitted int32 = 10
	PointsReportVerified  int32 = 20
	PointsReportResolved  int32 = 50
)

func (a ActivityType) Valid() bool {
	switch a {
	case ActivityWelcomeBonus, ActivityWasteReportSubmitted, ActivityReportVerified,
		ActivityReportResolved, ActivityCleanupEventAttended, ActivityRecyclingLogged:
		return true
	}
	return false
}

// CounterDelta returns the increments this activity applies to each counter.
func (a ActivityType) CounterDelta() ActivityCounters {
	var c ActivityCounters
	a.apply(&c, 1)
	return c
}

func (a ActivityType) apply(c *ActivityCounters, n int32) {
	switch a {
	case ActivityWasteReportSubmitted:
		c.WasteReportsSubmitted += n
	case ActivityReportVerified:
		c.ReportsVerified += n
	case ActivityCleanupEventAttended:
		c.CleanupEventsAttended += n
	case ActivityRecyclingLogged:
		c.RecyclingSessionsLogged += n
	}
}

const (
	LevelEcoChampion               = "Eco Champion"
	LevelGreenAdvocate             = "Green Advocate"
	LevelSustainabilityContributor = "Sustainability Contributor"
	LevelGreenNewcomer             = "Green Newcomer"
)

// SustainabilityLevel maps the summed participation counters to a tier.
// ReportsVerified is not a participation counter and is not summed.
func SustainabilityLevel(c ActivityCounters) string {
	total := c.WasteReportsSubmitted + c.CleanupEventsAttended + c.RecyclingSessionsLogged
	switch {
	case total >= 50:
		return LevelEcoChampion
	case total >= 20:
		return LevelGreenAdvocate
	case total >= 5:
		return LevelSustainabilityContributor
	default:
		return LevelGreenNewcomer
	}
}

// PointsTransaction is one append-only entry in the points ledger.
type PointsTransaction struct {
	ID        int64        `json:"id"`
	UserID    int32        `json:"user_id"`
	Points    int32        `json:"points"`
	Activity  ActivityType `json:"activity"`
	ReportID  *int32       `json:"report_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// PointsBalance is the state of a user right after an award.
type PointsBalance struct {
	UserID              int32            `json:"user_id"`
	GreenPoints         int32            `json:"green_points"`
	Counters            ActivityCounters `json:"activity"`
	SustainabilityLevel string           `json:"sustainability_level"`
}

type Milestone struct {
	Points int32
	Title  string
	Icon   string
}

var Milestones = []Milestone{
	{Points: 10, Title: "Seedling", Icon: "🌱"},
	{Points: 50, Title: "Green Warrior", Icon: "🌿"},
	{Points: 100, Title: "Eco Champion", Icon: "🌳"},
	{Points: 250, Title: "Environmental Hero", Icon: "🌍"},
	{Points: 500, Title: "Sustainability Legend", Icon: "🏆"},
}

// CrossedMilestones returns the milestones reached when a balance moves from
// before to after, in ascending order.
func CrossedMilestones(before, after int32) []Milestone {
	var out []Milestone
	for _, m := range Milestones {
		if before < m.Points && after >= m.Points {
			out = append(out, m)
		}
	}
	return out
}
