package sales

import "errors"

var (
	// ErrInvalidSale is returned for constraint violations on sale input
	// (non-positive quantity, negative total price).
	ErrInvalidSale = errors.New("invalid sale")

	// ErrInvalidPeriod is returned when a revenue report is requested for
	// an unrecognized period string. It is a structured error result, not
	// a partial report.
	ErrInvalidPeriod = errors.New("invalid period: use daily, weekly, monthly, or annual")
)

// IsClientError reports whether the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidSale) || errors.Is(err, ErrInvalidPeriod)
}
