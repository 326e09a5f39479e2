package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/credential"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

var codeErrors = map[string]error{
	models.CodeInvalidRequest:     credential.ErrInvalidRequest,
	models.CodeUnauthorized:       ErrUnauthorized,
	models.CodeForbidden:          ErrForbidden,
	models.CodeVerificationFailed: credential.ErrVerificationFailed,
	models.CodePossibleClone:      credential.ErrPossibleCloneDetected,
	models.CodeCredentialNotFound: credential.ErrCredentialNotFound,
	models.CodeAlreadyRegistered:  credential.ErrAlreadyRegistered,
	models.CodeChallengeExpired:   credential.ErrChallengeExpiredOrConsumed,
	models.CodeUnsupportedKind:    credential.ErrUnsupportedAuthenticator,
	models.CodeRateLimited:        ErrRateLimited,
	models.CodeInternal:           ErrServer,
}

var statusErrors = map[int]error{
	http.StatusBadRequest:          credential.ErrInvalidRequest,
	http.StatusUnauthorized:        ErrUnauthorized,
	http.StatusForbidden:           ErrForbidden,
	http.StatusNotFound:            credential.ErrCredentialNotFound,
	http.StatusConflict:            credential.ErrAlreadyRegistered,
	http.StatusGone:                credential.ErrChallengeExpiredOrConsumed,
	http.StatusUnprocessableEntity: credential.ErrVerificationFailed,
	http.StatusTooManyRequests:     ErrRateLimited,
}

// mapHTTPError turns a non-2xx response into a sentinel error. The error
// code in the body wins over the status code.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if sentinel, ok := codeErrors[body.Code]; ok {
			return fmt.Errorf("%w: %s", sentinel, body.Message)
		}
	}

	msg := strings.TrimSpace(string(resp.Body()))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	if sentinel, ok := statusErrors[resp.StatusCode()]; ok {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrServer, resp.StatusCode(), msg)
	}
	return fmt.Errorf("http %d: %s", resp.StatusCode(), msg)
}
