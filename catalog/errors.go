/*
errors.go - Error taxonomy for catalog operations

ERROR CATEGORIES:
  1. Not-found errors   - referenced product does not exist
  2. Validation errors  - constraint violations on input
  3. Storage failures   - anything else bubbling up from the store

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, catalog.ErrProductNotFound) { ... 404 ... }
    if errors.Is(err, catalog.ErrInvalidProduct)  { ... 400 ... }

Storage failures carry no sentinel; any error that is neither of the above
propagates as-is and maps to an internal error at the boundary.
*/
package catalog

import "errors"

var (
	// ErrProductNotFound is returned when a referenced product id does not
	// exist. Surfaced to the caller, never retried.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidProduct is returned for constraint violations on product
	// input (empty name, negative price, negative initial stock).
	ErrInvalidProduct = errors.New("invalid product")
)

// IsClientError reports whether the error is due to invalid caller input
// rather than a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidProduct)
}

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}
