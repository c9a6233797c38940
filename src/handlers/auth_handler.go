package handlers

import (
	"net/http"

	"github.com/username/momoledger/src/logger"
	"github.com/username/momoledger/src/security"
	"github.com/username/momoledger/src/utils"
)

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleIssueToken exchanges valid Basic credentials for a short-lived
// bearer token. The endpoint itself sits behind AuthMiddleware, so the
// user in context is already verified.
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error issuing token", "error", err)
		utils.SendJSONError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"token":              token,
		"expires_in_seconds": int(h.authService.TokenExpiry().Seconds()),
	})
}
