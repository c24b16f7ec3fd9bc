// Package dispatchgateway fronts the cross-domain token router. It quotes
// delivery fees, verifies destination eligibility and engine fee balances,
// grants the router its spending approvals, and hands escrowed payouts to the
// router for delivery on the destination domain.
package dispatchgateway
