package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID          = errors.New("invalid user ID")
	ErrInvalidSubject         = errors.New("invalid subject")
	ErrInvalidKind            = errors.New("invalid authenticator kind")
	ErrDisplayNameTooLong     = errors.New("display name is too long")
	ErrInvalidChallengeID     = errors.New("invalid challenge id")
	ErrInvalidCredentialID    = errors.New("invalid credential id")
	ErrEmptyClientData        = errors.New("client data is required")
	ErrEmptyAuthenticatorData = errors.New("authenticator data is required")
	ErrEmptySignature         = errors.New("signature is required")
	ErrEmptyPublicKey         = errors.New("public key is required")
	ErrEmptyJournalEntry      = errors.New("journal entry needs a title or a body")
	ErrJournalEntryTooLarge   = errors.New("journal entry is too large")
	ErrTooManyTags            = errors.New("too many tags")
	ErrInvalidTag             = errors.New("invalid tag")
)
