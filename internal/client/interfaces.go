// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/session"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

// Sessions is the part of the session manager the application uses.
type Sessions interface {
	CreateSession(ctx context.Context, userID string, method models.AuthMethod, device models.DeviceInfo) (models.AccessToken, error)
	RefreshAccessToken(ctx context.Context) (models.AccessToken, error)
	ValidateAccessToken(ctx context.Context, token string) error
	TerminateSession(ctx context.Context, sessionID string) error
	TerminateOtherSessions(ctx context.Context, userID string) (int, error)
	GetUserSessions(ctx context.Context, userID string) []models.Session
	RecordActivity(signal session.Activity) error
	OnTerminate(fn func(session.Termination))
	Current() (sessionID, userID string, ok bool)
	State() session.State
}

// Ceremonies is the part of the credential driver the application uses.
type Ceremonies interface {
	CheckAuthenticatorSupport(ctx context.Context) (models.AuthenticatorSupport, error)
	RegisterCredential(ctx context.Context, userID, displayName, subject string, kind models.AuthenticatorKind) (models.Credential, error)
	Authenticate(ctx context.Context, subject string) (models.AuthenticationResult, error)
}
