package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"raildash/internal/models/dtos"
	"raildash/internal/services"
)

// LoginHandler handles POST /api/v1/auth/login.
func LoginHandler(svc *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			var validation *services.ValidationError
			if errors.As(err, &validation) {
				respondWithError(w, http.StatusUnauthorized, err.Error())
				return
			}
			respondWithError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
