// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package credential implements WebAuthn-style public-key credential
// ceremonies.
//
// [Service] is the trusted verifier. It issues single-use challenges, checks
// every authenticator response against the stored public key registry and
// keeps signature counters. [Client] drives a ceremony from the user's side:
// it asks a [Verifier] for options, lets an [Authenticator] produce a
// response and relays that response back. The client never decides whether a
// response is valid.
package credential

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/config"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/logger"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/store"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/models"
)

type idGenerator interface {
	Generate() string
}

// Service is the trusted verifier. It implements [Verifier].
type Service struct {
	credentials store.CredentialRepository
	challenges  store.ChallengeRepository

	rpID            string
	origin          string
	check           checker
	challengeTTL    time.Duration
	ceremonyTimeout time.Duration

	ids    idGenerator
	now    func() time.Time
	logger *logger.Logger
}

// NewService constructs a verifier for the relying party in cfg.
func NewService(cfg config.Credential, credentials store.CredentialRepository, challenges store.ChallengeRepository, log *logger.Logger) *Service {
	return &Service{
		credentials:     credentials,
		challenges:      challenges,
		rpID:            cfg.RelyingPartyID,
		origin:          cfg.Origin,
		check:           newChecker(cfg.RelyingPartyID, cfg.Origin),
		challengeTTL:    cfg.ChallengeTTL,
		ceremonyTimeout: cfg.CeremonyTimeout,
		ids:             utils.NewULIDGenerator(),
		now:             time.Now,
		logger:          log,
	}
}

func (s *Service) issueChallenge(ctx context.Context, c models.Challenge) (models.Challenge, error) {
	nonce, err := protocol.CreateChallenge()
	if err != nil {
		return models.Challenge{}, fmt.Errorf("creating challenge: %w", err)
	}

	now := s.now()
	c.ChallengeID = s.ids.Generate()
	c.Nonce = nonce
	c.CreatedAt = now
	c.ExpiresAt = now.Add(s.challengeTTL)

	if err := s.challenges.SaveChallenge(ctx, c); err != nil {
		return models.Challenge{}, err
	}

	logger.FromContext(ctx).Debug().
		Str("challenge_id", c.ChallengeID).
		Str("purpose", string(c.Purpose)).
		Str("state", string(models.CeremonyChallengeIssued)).
		Msg("challenge issued")
	return c, nil
}

// consume takes the challenge out of the store. A missing, consumed or
// expired challenge is reported the same way.
func (s *Service) consume(ctx context.Context, challengeID string, purpose models.ChallengePurpose) (models.Challenge, error) {
	c, err := s.challenges.ConsumeChallenge(ctx, challengeID, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.Challenge{}, ErrChallengeExpiredOrConsumed
	case errors.Is(err, store.ErrExpired):
		logger.FromContext(ctx).Info().
			Str("challenge_id", challengeID).
			Str("state", string(models.CeremonyExpired)).
			Msg("challenge expired")
		return models.Challenge{}, ErrChallengeExpiredOrConsumed
	case err != nil:
		return models.Challenge{}, err
	}

	if c.Purpose != purpose {
		return models.Challenge{}, fmt.Errorf("%w: challenge issued for %s", ErrVerificationFailed, c.Purpose)
	}
	return c, nil
}

func (s *Service) options(c models.Challenge) models.CeremonyOptions {
	return models.CeremonyOptions{
		ChallengeID:      c.ChallengeID,
		Challenge:        c.Nonce,
		Purpose:          c.Purpose,
		RelyingPartyID:   s.rpID,
		Origin:           s.origin,
		UserID:           c.UserID,
		DisplayName:      c.DisplayName,
		Subject:          c.Subject,
		Kind:             c.Kind,
		AllowCredentials: c.AllowedCredentials,
		Timeout:          s.ceremonyTimeout,
		ExpiresAt:        c.ExpiresAt,
	}
}

func (s *Service) reject(ctx context.Context, challengeID string, err error) error {
	logger.FromContext(ctx).Warn().
		Err(err).
		Str("challenge_id", challengeID).
		Str("state", string(models.CeremonyRejected)).
		Msg("ceremony rejected")
	return err
}

// BeginRegistration issues a registration challenge bound to req.UserID.
func (s *Service) BeginRegistration(ctx context.Context, req models.RegistrationRequest) (models.CeremonyOptions, error) {
	if req.UserID == "" || req.Subject == "" || !req.Kind.Valid() {
		return models.CeremonyOptions{}, ErrInvalidRequest
	}

	existing, err := s.credentials.ListCredentialsByUser(ctx, req.UserID)
	if err != nil {
		return models.CeremonyOptions{}, err
	}
	exclude := make([]string, 0, len(existing))
	for _, c := range existing {
		exclude = append(exclude, c.CredentialID)
	}

	c, err := s.issueChallenge(ctx, models.Challenge{
		Purpose:     models.PurposeRegistration,
		Subject:     req.Subject,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Kind:        req.Kind,
	})
	if err != nil {
		return models.CeremonyOptions{}, err
	}

	opts := s.options(c)
	opts.ExcludeCredentials = exclude
	return opts, nil
}

// FinishRegistration verifies an attestation and stores the new credential.
// The challenge is consumed before anything else is checked, so a response
// can be presented at most once.
func (s *Service) FinishRegistration(ctx context.Context, resp models.AttestationResponse) (models.Credential, error) {
	c, err := s.consume(ctx, resp.ChallengeID, models.PurposeRegistration)
	if err != nil {
		return models.Credential{}, s.reject(ctx, resp.ChallengeID, err)
	}

	// A caller authenticated by the transport may only finish its own
	// registrations.
	if caller, ok := utils.GetUserIDFromContext(ctx); ok && caller != c.UserID {
		return models.Credential{}, s.reject(ctx, resp.ChallengeID, fmt.Errorf("%w: challenge issued to another user", ErrVerificationFailed))
	}

	cred, err := s.verifyAttestation(c, resp)
	if err != nil {
		return models.Credential{}, s.reject(ctx, resp.ChallengeID, err)
	}

	if err := s.credentials.SaveCredential(ctx, cred); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return models.Credential{}, s.reject(ctx, resp.ChallengeID, ErrAlreadyRegistered)
		}
		return models.Credential{}, err
	}

	logger.FromContext(ctx).Info().
		Str("user_id", cred.UserID).
		Str("kind", string(cred.AuthenticatorKind)).
		Str("state", string(models.CeremonyVerified)).
		Msg("credential registered")
	return cred, nil
}

func (s *Service) verifyAttestation(c models.Challenge, resp models.AttestationResponse) (models.Credential, error) {
	if resp.CredentialID == "" {
		return models.Credential{}, fmt.Errorf("%w: empty credential id", ErrVerificationFailed)
	}
	if resp.Kind != c.Kind {
		return models.Credential{}, fmt.Errorf("%w: authenticator kind %q", ErrVerificationFailed, resp.Kind)
	}
	if err := s.check.clientData(resp.ClientDataJSON, models.ClientDataCreate, c.Nonce); err != nil {
		return models.Credential{}, err
	}
	authData, err := s.check.authData(resp.AuthenticatorData)
	if err != nil {
		return models.Credential{}, err
	}
	key, err := parsePublicKey(resp.PublicKey)
	if err != nil {
		return models.Credential{}, err
	}
	// self attestation proves possession of the new private key
	if err := verifySignature(key, resp.AuthenticatorData, resp.ClientDataJSON, resp.Signature); err != nil {
		return models.Credential{}, err
	}

	now := s.now()
	return models.Credential{
		CredentialID:      resp.CredentialID,
		PublicKey:         resp.PublicKey,
		SignatureCounter:  authData.signCount,
		UserID:            c.UserID,
		Subject:           c.Subject,
		AuthenticatorKind: resp.Kind,
		DeviceLabel:       resp.DeviceLabel,
		AAGUID:            resp.AAGUID,
		CreatedAt:         now,
		LastUsedAt:        now,
	}, nil
}

// BeginAuthentication issues an authentication challenge restricted to the
// credentials registered for subject.
func (s *Service) BeginAuthentication(ctx context.Context, subject string) (models.CeremonyOptions, error) {
	if subject == "" {
		return models.CeremonyOptions{}, ErrInvalidRequest
	}

	creds, err := s.credentials.ListCredentialsBySubject(ctx, subject)
	if err != nil {
		return models.CeremonyOptions{}, err
	}
	if len(creds) == 0 {
		return models.CeremonyOptions{}, ErrCredentialNotFound
	}

	allowed := make([]string, 0, len(creds))
	for _, c := range creds {
		allowed = append(allowed, c.CredentialID)
	}

	c, err := s.issueChallenge(ctx, models.Challenge{
		Purpose:            models.PurposeAuthentication,
		Subject:            subject,
		UserID:             creds[0].UserID,
		AllowedCredentials: allowed,
	})
	if err != nil {
		return models.CeremonyOptions{}, err
	}
	return s.options(c), nil
}

// FinishAuthentication verifies an assertion against the stored public key
// and advances the credential's signature counter.
func (s *Service) FinishAuthentication(ctx context.Context, resp models.AssertionResponse) (models.AuthenticationResult, error) {
	log := logger.FromContext(ctx)

	c, err := s.consume(ctx, resp.ChallengeID, models.PurposeAuthentication)
	if err != nil {
		return models.AuthenticationResult{}, s.reject(ctx, resp.ChallengeID, err)
	}
	log.Debug().Str("challenge_id", c.ChallengeID).Str("state", string(models.CeremonyResponseReceived)).Send()

	if !c.Allows(resp.CredentialID) {
		return models.AuthenticationResult{}, s.reject(ctx, c.ChallengeID, fmt.Errorf("%w: credential not allowed", ErrVerificationFailed))
	}

	cred, err := s.credentials.GetCredential(ctx, resp.CredentialID)
	if errors.Is(err, store.ErrNotFound) {
		return models.AuthenticationResult{}, s.reject(ctx, c.ChallengeID, ErrCredentialNotFound)
	}
	if err != nil {
		return models.AuthenticationResult{}, err
	}

	signCount, err := s.verifyAssertion(c, cred, resp)
	if err != nil {
		return models.AuthenticationResult{}, s.reject(ctx, c.ChallengeID, err)
	}

	if err := s.advanceCounter(ctx, cred, signCount); err != nil {
		return models.AuthenticationResult{}, s.reject(ctx, c.ChallengeID, err)
	}

	log.Info().
		Str("user_id", cred.UserID).
		Str("state", string(models.CeremonyVerified)).
		Msg("credential authenticated")
	return models.AuthenticationResult{
		UserID:       cred.UserID,
		CredentialID: cred.CredentialID,
		State:        models.CeremonyVerified,
	}, nil
}

func (s *Service) verifyAssertion(c models.Challenge, cred models.Credential, resp models.AssertionResponse) (uint32, error) {
	if resp.UserHandle != "" && resp.UserHandle != cred.UserID {
		return 0, fmt.Errorf("%w: user handle mismatch", ErrVerificationFailed)
	}
	if err := s.check.clientData(resp.ClientDataJSON, models.ClientDataGet, c.Nonce); err != nil {
		return 0, err
	}
	authData, err := s.check.authData(resp.AuthenticatorData)
	if err != nil {
		return 0, err
	}
	key, err := parsePublicKey(cred.PublicKey)
	if err != nil {
		return 0, err
	}
	if err := verifySignature(key, resp.AuthenticatorData, resp.ClientDataJSON, resp.Signature); err != nil {
		return 0, err
	}
	return authData.signCount, nil
}

// advanceCounter requires the counter to move forward and stores it with a
// conditional write. An authenticator that reports 0 on both sides does not
// keep a counter at all and is exempt.
func (s *Service) advanceCounter(ctx context.Context, cred models.Credential, signCount uint32) error {
	if signCount == 0 && cred.SignatureCounter == 0 {
		logger.FromContext(ctx).Info().Str("user_id", cred.UserID).Msg("authenticator does not keep a signature counter")
	} else if signCount <= cred.SignatureCounter {
		return ErrPossibleCloneDetected
	}

	err := s.credentials.UpdateCredentialUsage(ctx, cred.CredentialID, cred.SignatureCounter, signCount, s.now())
	if errors.Is(err, store.ErrStaleCounter) {
		// another assertion moved the counter in between
		return ErrPossibleCloneDetected
	}
	return err
}

// ListCredentials returns the credentials registered for userID.
func (s *Service) ListCredentials(ctx context.Context, userID string) ([]models.Credential, error) {
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	return s.credentials.ListCredentialsByUser(ctx, userID)
}

// DeleteCredential removes one of userID's credentials.
func (s *Service) DeleteCredential(ctx context.Context, userID, credentialID string) error {
	if userID == "" || credentialID == "" {
		return ErrInvalidRequest
	}
	err := s.credentials.DeleteCredential(ctx, userID, credentialID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCredentialNotFound
	}
	return err
}

// SweepExpiredChallenges purges challenges whose expiry has passed.
func (s *Service) SweepExpiredChallenges(ctx context.Context) (int64, error) {
	return s.challenges.DeleteExpiredChallenges(ctx, s.now())
}
