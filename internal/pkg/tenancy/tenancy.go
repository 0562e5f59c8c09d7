package tenancy

import (
	"errors"

	"gorm.io/gorm"

	"github.com/eventpix/eventpix/app/repository"
	"github.com/eventpix/eventpix/internal/pkg/apperr"
)

// Resolver maps an authenticated identity to its organization. This is the
// only tenancy-resolution path; every operation on an event or anything
// reachable through one must pass through it before touching the store.
type Resolver struct {
	orgs repository.OrganizationRepository
}

// NewResolver creates a resolver around the membership repository
func NewResolver(orgs repository.OrganizationRepository) *Resolver {
	return &Resolver{orgs: orgs}
}

// Resolve returns the organization the user belongs to. A zero userID means
// no session identity (Unauthorized); a user without any membership row is
// NotAssociated. Pure lookup, no side effects.
func (r *Resolver) Resolve(userID uint) (uint, error) {
	if userID == 0 {
		return 0, apperr.New(apperr.KindUnauthorized, "login required")
	}
	orgID, err := r.orgs.MembershipOrgID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperr.New(apperr.KindNotAssociated, "user is not associated with an organization")
		}
		return 0, err
	}
	return orgID, nil
}
