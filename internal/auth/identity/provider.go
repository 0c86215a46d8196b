// Package identity wraps the external identity provider. The rest of the
// system talks to the Provider interface; the Firebase implementation uses
// the Admin SDK for account mutations and the Identity Toolkit REST API for
// the two operations the Admin SDK does not expose: password verification
// and sending the reset email.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/rotaops/rota-backend/internal/apperr"
)

// Provider is the identity-provider surface the managers consume.
type Provider interface {
	VerifyPassword(ctx context.Context, email, password string) error
	UpdateEmail(ctx context.Context, uid, email string) error
	UpdatePassword(ctx context.Context, uid, password string) error
	SendPasswordReset(ctx context.Context, email string) error
	DeleteUser(ctx context.Context, uid string) error
}

// AdminClient is the slice of the Firebase Admin SDK the provider uses.
// *auth.Client satisfies it.
type AdminClient interface {
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
}

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Firebase implements Provider.
type Firebase struct {
	admin    AdminClient
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewFirebase(admin AdminClient, apiKey string) *Firebase {
	return &Firebase{
		admin:    admin,
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyPassword re-authenticates the credential pair by signing in against
// the Identity Toolkit. A credential mismatch comes back as Unauthenticated;
// anything else is an upstream failure.
func (f *Firebase) VerifyPassword(ctx context.Context, email, password string) error {
	err := f.post(ctx, "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err == nil {
		return nil
	}

	switch code(err) {
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "EMAIL_NOT_FOUND", "USER_DISABLED":
		return apperr.New(apperr.Unauthenticated, "Current password is incorrect")
	}
	return apperr.Wrap(apperr.Upstream, "verify password", err)
}

// UpdateEmail changes the account email. An already-registered email is
// reported as a conflict; other provider errors pass through.
func (f *Firebase) UpdateEmail(ctx context.Context, uid, email string) error {
	_, err := f.admin.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).Email(email))
	if err == nil {
		return nil
	}
	if fbauth.IsEmailAlreadyExists(err) {
		return apperr.New(apperr.Conflict, "Email already in use")
	}
	return apperr.Wrap(apperr.Upstream, "update email", err)
}

func (f *Firebase) UpdatePassword(ctx context.Context, uid, password string) error {
	_, err := f.admin.UpdateUser(ctx, uid, (&fbauth.UserToUpdate{}).Password(password))
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "update password", err)
	}
	return nil
}

// SendPasswordReset triggers the provider's reset email for the address.
func (f *Firebase) SendPasswordReset(ctx context.Context, email string) error {
	err := f.post(ctx, "sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	})
	if err == nil {
		return nil
	}
	if code(err) == "EMAIL_NOT_FOUND" {
		return apperr.New(apperr.NotFound, "User email not found")
	}
	return apperr.Wrap(apperr.Upstream, "send password reset", err)
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	err := f.admin.DeleteUser(ctx, uid)
	if err == nil {
		return nil
	}
	if fbauth.IsUserNotFound(err) {
		return apperr.New(apperr.NotFound, "user not found")
	}
	return apperr.Wrap(apperr.Upstream, "delete user", err)
}

// toolkitError is a non-2xx Identity Toolkit response.
type toolkitError struct {
	Code   string
	Status int
}

func (e *toolkitError) Error() string {
	return fmt.Sprintf("identity toolkit: %s (http %d)", e.Code, e.Status)
}

func code(err error) string {
	if te, ok := err.(*toolkitError); ok {
		return te.Code
	}
	return ""
}

func (f *Firebase) post(ctx context.Context, action string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/accounts:%s?key=%s", f.endpoint, action, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return &toolkitError{Code: "UNKNOWN", Status: resp.StatusCode}
	}

	// Messages sometimes carry detail after a colon, e.g.
	// "TOO_MANY_ATTEMPTS_TRY_LATER : ...". Keep the bare code.
	code := parsed.Error.Message
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	return &toolkitError{Code: code, Status: resp.StatusCode}
}
