package errors

import "errors"

var (
	ErrInvalidInput                = errors.New("registry input is invalid")
	ErrOrganizationNotFound        = errors.New("organization not found")
	ErrMemberNotFound              = errors.New("member not found")
	ErrControllerAlreadyRegistered = errors.New("controller already owns an organization")
	ErrRegistrationFeeUnpaid       = errors.New("registration fee could not be collected")
	ErrWithdrawFailed              = errors.New("treasury withdrawal failed")
)
