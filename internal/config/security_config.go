package config

type AccessLevel int

const (
	AccessPublic        AccessLevel = iota // No authentication
	AccessOptional                         // Token used when present, anonymous otherwise
	AccessAuthenticated                    // Valid token and active account required
	AccessAdmin                            // Admin role required
)

// EndpointAccessConfig maps "METHOD route-template" to the access level the
// HTTP auth middleware enforces. Templates are the gorilla/mux path templates
// the routes are registered with.
var EndpointAccessConfig = map[string]AccessLevel{
	"GET /api/health": AccessPublic,

	// Auth
	"POST /api/auth/register":              AccessPublic,
	"POST /api/auth/login":                 AccessPublic,
	"POST /api/auth/forgot-password":       AccessPublic,
	"PUT /api/auth/reset-password/{token}": AccessPublic,
	"GET /api/auth/me":                     AccessAuthenticated,
	"POST /api/auth/logout":                AccessAuthenticated,

	// Reports
	"GET /api/reports":               AccessPublic,
	"GET /api/reports/stats":         AccessPublic,
	"GET /api/reports/{id}":          AccessPublic,
	"POST /api/reports":              AccessAuthenticated,
	"PATCH /api/reports/{id}/status": AccessAuthenticated,
	"DELETE /api/reports/{id}":       AccessAdmin,

	// Users
	"GET /api/users/leaderboard": AccessPublic,
	"GET /api/users/me/points":   AccessAuthenticated,
	"GET /api/users/{id}":        AccessOptional,
	"PATCH /api/users/{id}":      AccessAuthenticated,
	"PUT /api/users/{id}/role":   AccessAdmin,
	"DELETE /api/users/{id}":     AccessAdmin,

	// Email
	"POST /api/email/test": AccessAdmin,

	// Local image storage
	"GET /uploads/{key:.+}": AccessPublic,
}

// GetAccessLevel returns the access level for a method and route template
func GetAccessLevel(method, routeTemplate string) AccessLevel {
	if level, exists := EndpointAccessConfig[method+" "+routeTemplate]; exists {
		return level
	}
	// Default to authenticated for unknown endpoints
	return AccessAuthenticated
}
