package validators

import (
	"context"
	"strings"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

const (
	maxJournalBytes = 1 << 20
	maxTags         = 32
	maxTagLength    = 64
)

// JournalValidator checks plaintext journal content before it is sealed.
type JournalValidator struct {
}

func NewJournalValidator() Validator {
	return &JournalValidator{}
}

func (v *JournalValidator) Validate(ctx context.Context, obj any, _ ...string) error {
	switch value := obj.(type) {
	case models.JournalContent:
		return validateJournalContent(value)
	case *models.JournalContent:
		return validateJournalContent(*value)
	default:
		return ErrUnsupportedType
	}
}

func validateJournalContent(c models.JournalContent) error {
	if strings.TrimSpace(c.Title) == "" && strings.TrimSpace(c.Body) == "" {
		return ErrEmptyJournalEntry
	}
	if len(c.Title)+len(c.Body)+len(c.Mood) > maxJournalBytes {
		return ErrJournalEntryTooLarge
	}
	if len(c.Tags) > maxTags {
		return ErrTooManyTags
	}
	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" || len(tag) > maxTagLength {
			return ErrInvalidTag
		}
	}
	return nil
}
