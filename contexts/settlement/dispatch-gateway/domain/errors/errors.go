package errors

import (
	"errors"
	"fmt"
)

var (
	ErrDestinationNotEligible = errors.New("destination domain is not eligible for dispatch")
	ErrInvalidReceiver        = errors.New("receiver account is invalid")
	ErrRouterSendFailed       = errors.New("router rejected the dispatch")
)

// InsufficientFeeBalanceError reports that the engine account cannot cover
// the quoted delivery fee. Have and Need are in base units of the fee asset.
type InsufficientFeeBalanceError struct {
	Have uint64
	Need uint64
}

func (e InsufficientFeeBalanceError) Error() string {
	return fmt.Sprintf("insufficient fee balance: have %d, need %d", e.Have, e.Need)
}
