// Package disbursementengine contains the Remit due-obligation scanner, the
// disbursement executor, and the automation trigger adapter.
//
// The scanner is a read-only round-robin search over registry state; the only
// state it touches is the persisted cursor pair. The executor settles exactly
// one obligation per invocation against the external ledger, either by a
// direct local transfer or by escrow-and-dispatch through the cross-domain
// gateway. Serialization of invocations is the caller's responsibility; the
// shipped worker runs the trigger on a non-reentrant schedule.
package disbursementengine
