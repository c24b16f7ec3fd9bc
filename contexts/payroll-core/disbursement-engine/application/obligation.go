package application

import (
	"encoding/binary"

	domainerrors "remit/contexts/payroll-core/disbursement-engine/domain/errors"
	"remit/contexts/payroll-core/disbursement-engine/ports"
)

const obligationRefLen = 16

// EncodeObligationRef packs an obligation into the opaque reference handed to
// the automation collaborator: two big-endian uint64s, organization first.
func EncodeObligationRef(obligation ports.Obligation) []byte {
	ref := make([]byte, obligationRefLen)
	binary.BigEndian.PutUint64(ref[:8], obligation.OrgID)
	binary.BigEndian.PutUint64(ref[8:], obligation.MemberID)
	return ref
}

// DecodeObligationRef recovers the exact (organization, member) pair from a
// reference produced by EncodeObligationRef.
func DecodeObligationRef(ref []byte) (ports.Obligation, error) {
	if len(ref) != obligationRefLen {
		return ports.Obligation{}, domainerrors.ErrInvalidObligationRef
	}
	return ports.Obligation{
		OrgID:    binary.BigEndian.Uint64(ref[:8]),
		MemberID: binary.BigEndian.Uint64(ref[8:]),
	}, nil
}
