package auth

import (
	"github.com/eventpix/eventpix/app/models"
	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

// CredentialVerifier is the opaque login capability: it checks an email and
// password and yields the user, or an invalid-credentials failure. It is
// deliberately separate from session handling; the request layer composes
// the two.
type CredentialVerifier interface {
	Verify(email, password string) (*models.User, error)
}

// dummyHash is a bcrypt hash compared against when the email is unknown, so
// lookup misses take as long as password mismatches.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type bcryptVerifier struct {
	users repository.UserRepository
}

// NewVerifier creates the bcrypt-backed credential verifier
func NewVerifier(users repository.UserRepository) CredentialVerifier {
	return &bcryptVerifier{users: users}
}

func (v *bcryptVerifier) Verify(email, password string) (*models.User, error) {
	user, err := v.users.GetByEmail(email)
	if err != nil {
		models.CheckPasswordHash(password, dummyHash)
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	if !user.CheckPassword(password) {
		return nil, apperr.New(apperr.KindUnauthorized, "invalid credentials")
	}
	return user, nil
}
