package service

import (
	"context"

	"github.com/rotaops/rota-backend/internal/apperr"
	"github.com/rotaops/rota-backend/internal/auth/identity"
	"github.com/rotaops/rota-backend/internal/schema"
)

// ProfileStore is the slice of the profile repository the account manager
// needs.
type ProfileStore interface {
	GetName(ctx context.Context, uid string) (string, error)
	UpdateName(ctx context.Context, uid, name string) error
}

// Session is the acting identity, passed explicitly into every operation.
type Session struct {
	UID   string
	Email string
}

func (s Session) valid() bool { return s.UID != "" }

// Service handles self-service account mutations.
type Service struct {
	profiles ProfileStore
	provider identity.Provider
}

func New(profiles ProfileStore, provider identity.Provider) *Service {
	return &Service{profiles: profiles, provider: provider}
}

// Profile returns the display name of the authenticated identity.
func (s *Service) Profile(ctx context.Context, session Session) (string, error) {
	if !session.valid() {
		return "", apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	return s.profiles.GetName(ctx, session.UID)
}

// Update runs the account mutation pipeline in order: re-authenticate when
// credentials are touched, then email, then password, then display name.
// Each failure stops the pipeline; steps already applied stay applied.
func (s *Service) Update(ctx context.Context, payload schema.AccountUpdate, session Session) error {
	if !session.valid() {
		return apperr.New(apperr.Unauthenticated, "not authenticated")
	}
	if err := schema.ValidateAccountUpdate(payload); err != nil {
		return err
	}

	if payload.RequiresReauth() {
		current := ""
		if payload.CurrentPassword != nil {
			current = *payload.CurrentPassword
		}
		// Verify against the session email: a password-only change must
		// check the credential the account actually has.
		if err := s.provider.VerifyPassword(ctx, session.Email, current); err != nil {
			return err
		}

		if email := payload.EmailValue(); email != "" && email != session.Email {
			if err := s.provider.UpdateEmail(ctx, session.UID, email); err != nil {
				return err
			}
		}

		if payload.WantsNewPassword() {
			if err := s.provider.UpdatePassword(ctx, session.UID, *payload.NewPassword); err != nil {
				return err
			}
		}
	}

	// The name step runs regardless of whether the credential steps were
	// needed; an absent name leaves the profile as it is.
	if payload.Name != nil {
		if err := s.profiles.UpdateName(ctx, session.UID, *payload.Name); err != nil {
			return err
		}
	}

	return nil
}
