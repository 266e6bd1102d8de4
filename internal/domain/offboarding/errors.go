package offboarding

import "errors"

var (
	ErrSettlementNotFound  = errors.New("final settlement not found")
	ErrSettlementExists    = errors.New("employee already has a final settlement")
	ErrNonFiniteSettlement = errors.New("settlement contains a non-finite amount; check years of service and gratuity")
	ErrLastDayBeforeJoin   = errors.New("last working day is before join date")
)
