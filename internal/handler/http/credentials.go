package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func (h *Handler) validate(r *http.Request, v any) error {
	if err := h.validator.Validate(r.Context(), v); err != nil {
		return fmt.Errorf("%w: %w", credential.ErrInvalidRequest, err)
	}
	return nil
}

func (h *Handler) beginRegistration(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validate(r, req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := sameUser(r.Context(), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}

	opts, err := h.verifier.BeginRegistration(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, opts)
}

func (h *Handler) finishRegistration(w http.ResponseWriter, r *http.Request) {
	var resp models.AttestationResponse
	if err := decode(r, &resp); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validate(r, resp); err != nil {
		writeError(w, r, err)
		return
	}

	// the verifier checks the challenge belongs to the caller in ctx
	cred, err := h.verifier.FinishRegistration(r.Context(), resp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cred)
}

func (h *Handler) beginAuthentication(w http.ResponseWriter, r *http.Request) {
	var req models.AuthenticationBeginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validate(r, req.Subject); err != nil {
		writeError(w, r, err)
		return
	}

	opts, err := h.verifier.BeginAuthentication(r.Context(), req.Subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, opts)
}

func (h *Handler) finishAuthentication(w http.ResponseWriter, r *http.Request) {
	var resp models.AssertionResponse
	if err := decode(r, &resp); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.validate(r, resp); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.verifier.FinishAuthentication(r.Context(), resp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) listCredentials(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if err := sameUser(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	creds, err := h.verifier.ListCredentials(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if creds == nil {
		creds = []models.Credential{}
	}
	writeJSON(w, r, http.StatusOK, creds)
}

func (h *Handler) deleteCredential(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if err := sameUser(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.verifier.DeleteCredential(r.Context(), userID, chi.URLParam(r, "credentialID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
