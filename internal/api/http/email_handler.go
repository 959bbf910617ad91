package http

import (
	"net/http"

	"reviwa-backend/internal/service"
)

type EmailHandler struct {
	mail service.MailService
}

func NewEmailHandler(mail service.MailService) *EmailHandler {
	return &EmailHandler{mail: mail}
}

type testEmailRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

// SendTest mails the test template to the given address, or to the calling
// admin when the body is empty.
func (h *EmailHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req testEmailRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	to := req.Email
	if to == "" {
		to = actor.Email
	}

	if err := h.mail.SendTest(r.Context(), to); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Test email sent successfully",
		"to":      to,
	})
}
