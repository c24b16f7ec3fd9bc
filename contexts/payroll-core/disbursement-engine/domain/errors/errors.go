package errors

import "errors"

// Precondition failures: caller-side misuse of the executor. No state is
// touched when any of these fire.
var (
	ErrOrganizationNotFound    = errors.New("organization not found")
	ErrOrganizationInactive    = errors.New("organization is inactive")
	ErrMemberNotFound          = errors.New("member not found")
	ErrMemberNotInOrganization = errors.New("member does not belong to organization")
	ErrMemberInactive          = errors.New("member is inactive")
	ErrNotYetDue               = errors.New("obligation is not yet due")
)

// Fatal attempt failures: the settlement attempt aborts, the due timestamp
// stays unchanged.
var (
	ErrEscrowPullFailed = errors.New("escrow pull from controller failed")
)

var ErrInvalidObligationRef = errors.New("obligation reference is malformed")

// IsPrecondition reports whether err is one of the executor's precondition
// failures.
func IsPrecondition(err error) bool {
	for _, sentinel := range []error{
		ErrOrganizationNotFound,
		ErrOrganizationInactive,
		ErrMemberNotFound,
		ErrMemberNotInOrganization,
		ErrMemberInactive,
		ErrNotYetDue,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
