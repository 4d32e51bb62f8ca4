package trade

import "errors"

var (
	ErrInvalidRoute       = errors.New("invalid route")
	ErrInvalidTravelTime  = errors.New("travel time does not match planet distance")
	ErrDuplicateRoute     = errors.New("trade route already exists between these planets")
	ErrInvalidAgreement   = errors.New("invalid trade agreement")
	ErrAgreementNotActive = errors.New("trade agreement is not active")
)
