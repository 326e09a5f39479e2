package http

import (
	"errors"
	"net/http"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

type errorStatus struct {
	status int
	code   string
}

// errorStatusMap is checked in order; the first matching sentinel wins.
var errorStatusMap = []struct {
	target error
	errorStatus
}{
	{ErrInvalidJSON, errorStatus{http.StatusBadRequest, models.CodeInvalidRequest}},
	{credential.ErrInvalidRequest, errorStatus{http.StatusBadRequest, models.CodeInvalidRequest}},
	{ErrEmptyAuthorizationHeader, errorStatus{http.StatusUnauthorized, models.CodeUnauthorized}},
	{ErrInvalidAuthorizationHeader, errorStatus{http.StatusUnauthorized, models.CodeUnauthorized}},
	{ErrInvalidToken, errorStatus{http.StatusUnauthorized, models.CodeUnauthorized}},
	{ErrForeignUser, errorStatus{http.StatusForbidden, models.CodeForbidden}},
	{credential.ErrPossibleCloneDetected, errorStatus{http.StatusForbidden, models.CodePossibleClone}},
	{credential.ErrChallengeExpiredOrConsumed, errorStatus{http.StatusGone, models.CodeChallengeExpired}},
	{credential.ErrVerificationFailed, errorStatus{http.StatusUnauthorized, models.CodeVerificationFailed}},
	{credential.ErrCredentialNotFound, errorStatus{http.StatusNotFound, models.CodeCredentialNotFound}},
	{credential.ErrAlreadyRegistered, errorStatus{http.StatusConflict, models.CodeAlreadyRegistered}},
	{credential.ErrUnsupportedAuthenticator, errorStatus{http.StatusBadRequest, models.CodeUnsupportedKind}},
	{ErrRateLimited, errorStatus{http.StatusTooManyRequests, models.CodeRateLimited}},
}

func statusFromError(err error) errorStatus {
	for _, e := range errorStatusMap {
		if errors.Is(err, e.target) {
			return e.errorStatus
		}
	}
	return errorStatus{http.StatusInternalServerError, models.CodeInternal}
}

// writeError logs err and answers with its JSON error body. Internal
// errors are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	st := statusFromError(err)

	msg := err.Error()
	if st.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
		msg = http.StatusText(st.status)
	} else {
		log.Info().Err(err).Int("status", st.status).Msg("request rejected")
	}

	_, _ = utils.WriteJSON(w, models.ErrorResponse{Code: st.code, Message: msg}, st.status)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if _, err := utils.WriteJSON(w, v, status); err != nil {
		logger.FromRequest(r).Err(err).Msg("writing response")
	}
}
