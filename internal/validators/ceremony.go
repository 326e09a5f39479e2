package validators

import (
	"context"
	"strings"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// Field names accepted by [CeremonyValidator].
const (
	FieldUserID            = "user_id"
	FieldSubject           = "subject"
	FieldKind              = "kind"
	FieldDisplayName       = "display_name"
	FieldChallengeID       = "challenge_id"
	FieldCredentialID      = "credential_id"
	FieldClientData        = "client_data"
	FieldAuthenticatorData = "authenticator_data"
	FieldSignature         = "signature"
	FieldPublicKey         = "public_key"
)

const (
	maxIDLength          = 1024
	maxDisplayNameLength = 256
)

// CeremonyValidator checks the shape of ceremony requests before they reach
// the verifier. It does not verify anything cryptographic.
type CeremonyValidator struct {
}

func NewCeremonyValidator() Validator {
	return &CeremonyValidator{}
}

// Validate dispatches on the dynamic type of obj. Supported types are
// models.RegistrationRequest, models.AttestationResponse and
// models.AssertionResponse, as values or pointers. A bare string is checked
// as an authentication subject.
func (v *CeremonyValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegistrationRequest:
		return v.validateRegistrationRequest(value, fields...)
	case *models.RegistrationRequest:
		return v.validateRegistrationRequest(*value, fields...)

	case models.AttestationResponse:
		return v.validateAttestation(value, fields...)
	case *models.AttestationResponse:
		return v.validateAttestation(*value, fields...)

	case models.AssertionResponse:
		return v.validateAssertion(value, fields...)
	case *models.AssertionResponse:
		return v.validateAssertion(*value, fields...)

	case string:
		return validID(value, ErrInvalidSubject)

	default:
		return ErrUnsupportedType
	}
}

func validID(id string, errInvalid error) error {
	if strings.TrimSpace(id) == "" || len(id) > maxIDLength {
		return errInvalid
	}
	return nil
}

// validateRegistrationRequest: defaults to UserID, Subject, Kind, DisplayName.
func (v *CeremonyValidator) validateRegistrationRequest(req models.RegistrationRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldSubject, FieldKind, FieldDisplayName}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if err := validID(req.UserID, ErrInvalidUserID); err != nil {
				return err
			}
		case FieldSubject:
			if err := validID(req.Subject, ErrInvalidSubject); err != nil {
				return err
			}
		case FieldKind:
			if !req.Kind.Valid() {
				return ErrInvalidKind
			}
		case FieldDisplayName:
			if len(req.DisplayName) > maxDisplayNameLength {
				return ErrDisplayNameTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateAttestation: defaults to ChallengeID, CredentialID, ClientData,
// AuthenticatorData, Signature, PublicKey and Kind.
func (v *CeremonyValidator) validateAttestation(resp models.AttestationResponse, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChallengeID, FieldCredentialID, FieldClientData, FieldAuthenticatorData, FieldSignature, FieldPublicKey, FieldKind}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldChallengeID:
			err = validID(resp.ChallengeID, ErrInvalidChallengeID)
		case FieldCredentialID:
			err = validID(resp.CredentialID, ErrInvalidCredentialID)
		case FieldClientData:
			err = nonEmpty(resp.ClientDataJSON, ErrEmptyClientData)
		case FieldAuthenticatorData:
			err = nonEmpty(resp.AuthenticatorData, ErrEmptyAuthenticatorData)
		case FieldSignature:
			err = nonEmpty(resp.Signature, ErrEmptySignature)
		case FieldPublicKey:
			err = nonEmpty(resp.PublicKey, ErrEmptyPublicKey)
		case FieldKind:
			if !resp.Kind.Valid() {
				err = ErrInvalidKind
			}
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion: defaults to ChallengeID, CredentialID, ClientData,
// AuthenticatorData and Signature.
func (v *CeremonyValidator) validateAssertion(resp models.AssertionResponse, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldChallengeID, FieldCredentialID, FieldClientData, FieldAuthenticatorData, FieldSignature}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldChallengeID:
			err = validID(resp.ChallengeID, ErrInvalidChallengeID)
		case FieldCredentialID:
			err = validID(resp.CredentialID, ErrInvalidCredentialID)
		case FieldClientData:
			err = nonEmpty(resp.ClientDataJSON, ErrEmptyClientData)
		case FieldAuthenticatorData:
			err = nonEmpty(resp.AuthenticatorData, ErrEmptyAuthenticatorData)
		case FieldSignature:
			err = nonEmpty(resp.Signature, ErrEmptySignature)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func nonEmpty(b []byte, errEmpty error) error {
	if len(b) == 0 {
		return errEmpty
	}
	return nil
}
