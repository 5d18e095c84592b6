// Package security owns the credential lifecycle of User documents:
// hashing on write, password-change tracking, credential verification
// and one-time reset tokens.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"tourbase/internal/model/user"
	"tourbase/internal/pkg/password"
)

// ResetTokenTTL bounds how long a reset token stays valid.
const ResetTokenTTL = 10 * time.Minute

// changedAtBackdate guards against clock skew: a token issued in the
// same instant as a password change must still be treated as
// pre-dating the change.
const changedAtBackdate = time.Second

// Manager enforces the credential invariants on User documents.
type Manager struct{}

// NewManager creates a credential manager.
func NewManager() *Manager {
	return &Manager{}
}

// PreSave prepares a user's credentials for persistence. When the
// plaintext password was modified it is replaced with a bcrypt hash
// (cost 12) and the confirmation is discarded; unmodified passwords
// are never re-hashed. A change on an existing document back-dates
// passwordChangedAt by one second.
func (m *Manager) PreSave(u *user.User, passwordModified, isNew bool) error {
	if !passwordModified {
		return nil
	}

	hash, err := password.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = hash
	u.PasswordConfirm = ""

	if !isNew {
		changedAt := time.Now().Add(-changedAtBackdate)
		u.PasswordChangedAt = &changedAt
	}
	return nil
}

// CorrectPassword reports whether the candidate matches the stored
// hash. Plaintext is never compared directly.
func (m *Manager) CorrectPassword(candidate, storedHash string) bool {
	return password.Verify(candidate, storedHash)
}

// ChangedPasswordAfter reports whether the user changed their password
// after the given token-issuance time (unix seconds). A user who never
// changed their password cannot invalidate a token.
func (m *Manager) ChangedPasswordAfter(u *user.User, issuedAtUnix int64) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAtUnix < u.PasswordChangedAt.Unix()
}

// CreateResetToken generates a one-time reset token. The raw token is
// returned exactly once for delivery to the account holder; only its
// SHA-256 hash and a 10-minute expiry persist on the document.
func (m *Manager) CreateResetToken(u *user.User) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	u.PasswordResetToken = HashResetToken(token)
	expires := time.Now().Add(ResetTokenTTL)
	u.PasswordResetExpires = &expires

	return token, nil
}

// HashResetToken hashes a presented raw token for comparison against
// the stored hash.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// ResetTokenValid reports whether the presented raw token matches the
// stored hash and has not expired.
func (m *Manager) ResetTokenValid(u *user.User, raw string, now time.Time) bool {
	if u.PasswordResetToken == "" || u.PasswordResetExpires == nil {
		return false
	}
	if now.After(*u.PasswordResetExpires) {
		return false
	}
	return HashResetToken(raw) == u.PasswordResetToken
}

// ClearResetToken removes a consumed or abandoned reset token.
func (m *Manager) ClearResetToken(u *user.User) {
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
}
