package http

import (
	"net/http"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/service"
)

type UserHandler struct {
	users        service.UserService
	admin        service.AdminService
	gamification service.GamificationService
}

func NewUserHandler(users service.UserService, admin service.AdminService, gamification service.GamificationService) *UserHandler {
	return &UserHandler{users: users, admin: admin, gamification: gamification}
}

type updateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar" validate:"omitempty,url"`
	Location  *struct {
		City        *string   `json:"city" validate:"omitempty,max=100"`
		State       *string   `json:"state" validate:"omitempty,max=100"`
		Coordinates []float64 `json:"coordinates" validate:"omitempty,len=2"`
	} `json:"location"`
	Interests               []domain.SustainabilityInterest `json:"sustainability_interests"`
	Privacy                 *domain.PrivacySettings         `json:"privacy_settings"`
	NotificationPreferences *domain.NotificationPreferences `json:"notification_preferences"`
}

func (req *updateProfileRequest) update() service.ProfileUpdate {
	upd := service.ProfileUpdate{
		Name:                    req.Name,
		Bio:                     req.Bio,
		AvatarURL:               req.AvatarURL,
		Interests:               req.Interests,
		Privacy:                 req.Privacy,
		NotificationPreferences: req.NotificationPreferences,
	}
	if loc := req.Location; loc != nil {
		upd.City = loc.City
		upd.State = loc.State
		if loc.Coordinates != nil {
			upd.Point = &domain.Point{Longitude: loc.Coordinates[0], Latitude: loc.Coordinates[1]}
		}
	}
	return upd
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user environmental_org admin"`
}

func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt32(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	window := domain.LeaderboardWindow(r.URL.Query().Get("window"))

	entries, err := h.users.Leaderboard(r.Context(), window, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"users": entries}))
}

func (h *UserHandler) Points(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := queryInt32(r.URL.Query(), "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit, err := queryInt32(r.URL.Query(), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, total, err := h.gamification.History(r.Context(), actor.ID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []domain.PointsTransaction{}
	}
	writeJSON(w, http.StatusOK, data(map[string]any{
		"green_points": actor.GreenPoints,
		"transactions": txs,
		"total":        total,
	}))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"user": user}))
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), actor, id, req.update())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"user": user}))
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.admin.ChangeRole(r.Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, data(map[string]any{"user": user}))
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.admin.Deactivate(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User deactivated"})
}
