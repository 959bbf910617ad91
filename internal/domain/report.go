package domain

import (
	"strings"
	"time"
)

const (
	MaxReportImages      = 5
	MaxImageBytes        = 10 << 20
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)

type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusVerified   ReportStatus = "verified"
	ReportStatusInProgress ReportStatus = "in-progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusRejected   ReportStatus = "rejected"
)

func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusVerified, ReportStatusInProgress,
		ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

func (s ReportStatus) Terminal() bool {
	return s == ReportStatusResolved || s == ReportStatusRejected
}

type WasteType string

const (
	WasteTypePlastic      WasteType = "plastic"
	WasteTypeOrganic      WasteType = "organic"
	WasteTypeElectronic   WasteType = "electronic"
	WasteTypeMetal        WasteType = "metal"
	WasteTypeGlass        WasteType = "glass"
	WasteTypePaper        WasteType = "paper"
	WasteTypeConstruction WasteType = "construction"
	WasteTypeHazardous    WasteType = "hazardous"
	WasteTypeOther        WasteType = "other"
)

func (w WasteType) Valid() bool {
	switch w {
	case WasteTypePlastic, WasteTypeOrganic, WasteTypeElectronic, WasteTypeMetal,
		WasteTypeGlass, WasteTypePaper, WasteTypeConstruction, WasteTypeHazardous, WasteTypeOther:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Point is a WGS84 coordinate.
type Point struct {
	Longitude float64 `json:"lng"`
	Latitude  float64 `json:"lat"`
}

func (p Point) Validate() error {
	if p.Longitude < -180 || p.Longitude > 180 {
		return Validationf("longitude must be between -180 and 180")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return Validationf("latitude must be between -90 and 90")
	}
	return nil
}

// GeoLocation is serialized as a GeoJSON point: coordinates are [lng, lat].
type GeoLocation struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	Address     string     `json:"address,omitempty"`
}

func NewGeoLocation(p Point, address string) GeoLocation {
	return GeoLocation{
		Type:        "Point",
		Coordinates: [2]float64{p.Longitude, p.Latitude},
		Address:     address,
	}
}

func (g GeoLocation) Point() Point {
	return Point{Longitude: g.Coordinates[0], Latitude: g.Coordinates[1]}
}

type ReportImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type Report struct {
	ID             int32         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	WasteType      WasteType     `json:"wasteType"`
	Severity       Severity      `json:"severity"`
	Location       GeoLocation   `json:"location"`
	Images         []ReportImage `json:"images"`
	Status         ReportStatus  `json:"status"`
	StatusNote     string        `json:"statusNote,omitempty"`
	ReportedBy     int32         `json:"reportedBy"`
	ReporterName   string        `json:"reporterName,omitempty"`
	VerifiedBy     *int32        `json:"verifiedBy,omitempty"`
	VerifiedAt     *time.Time    `json:"verifiedAt,omitempty"`
	ResolvedAt     *time.Time    `json:"resolvedAt,omitempty"`
	DistanceMeters *float64      `json:"distanceMeters,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Validate checks the fields a reporter supplies on creation.
func (r *Report) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" {
		return Validationf("title is required")
	}
	if len(r.Title) > MaxTitleLength {
		return Validationf("title cannot exceed %d characters", MaxTitleLength)
	}
	if r.Description == "" {
		return Validationf("description is required")
	}
	if len(r.Description) > MaxDescriptionLength {
		return Validationf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	if !r.WasteType.Valid() {
		return Validationf("invalid waste type %q", r.WasteType)
	}
	if !r.Severity.Valid() {
		return Validationf("invalid severity %q", r.Severity)
	}
	if err := r.Location.Point().Validate(); err != nil {
		return err
	}
	if len(r.Images) > MaxReportImages {
		return Validationf("a report can have at most %d images", MaxReportImages)
	}
	return nil
}

type ReportQuery struct {
	Near         *Point
	RadiusMeters float64
	Status       ReportStatus
	WasteType    WasteType
	Severity     Severity
	ReportedBy   int32
	Page         int32
	Limit        int32
}

const (
	DefaultPageLimit    = 20
	MaxPageLimit        = 100
	DefaultRadiusMeters = 5000
	MaxRadiusMeters     = 100000
)

// Normalize applies defaults and rejects out-of-range values.
func (q *ReportQuery) Normalize() error {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Status != "" && !q.Status.Valid() {
		return Validationf("invalid status filter %q", q.Status)
	}
	if q.WasteType != "" && !q.WasteType.Valid() {
		return Validationf("invalid waste type filter %q", q.WasteType)
	}
	if q.Severity != "" && !q.Severity.Valid() {
		return Validationf("invalid severity filter %q", q.Severity)
	}
	if q.Near != nil {
		if err := q.Near.Validate(); err != nil {
			return err
		}
		if q.RadiusMeters <= 0 {
			q.RadiusMeters = DefaultRadiusMeters
		}
		if q.RadiusMeters > MaxRadiusMeters {
			return Validationf("radius cannot exceed %d meters", MaxRadiusMeters)
		}
	}
	return nil
}

func (q ReportQuery) Offset() int32 {
	return (q.Page - 1) * q.Limit
}

type ReportPage struct {
	Reports []Report `json:"reports"`
	Total   int32    `json:"total"`
	Page    int32    `json:"page"`
	Limit   int32    `json:"limit"`
	Pages   int32    `json:"pages"`
}

func NewReportPage(reports []Report, total int32, q ReportQuery) *ReportPage {
	pages := int32(0)
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	if reports == nil {
		reports = []Report{}
	}
	return &ReportPage{Reports: reports, Total: total, Page: q.Page, Limit: q.Limit, Pages: pages}
}

type DashboardStats struct {
	TotalUsers    int32                  `json:"totalUsers"`
	TotalReports  int32                  `json:"totalReports"`
	ByStatus      map[ReportStatus]int32 `json:"byStatus"`
	ResolvedCount int32                  `json:"resolvedReports"`
	PendingCount  int32                  `json:"pendingReports"`
	TotalPoints   int64                  `json:"totalGreenPoints"`
}
