package barcode

import (
	"context"
	"errors"
	"fmt"
)

// maxRetryAttempts bounds the reservation loop after the initial candidate.
// Collisions are timestamp-suffixed rarities; if five perturbed candidates are
// all taken something is wrong (exhausted entropy or a broken oracle) and we
// fail fast instead of looping.
const maxRetryAttempts = 5

// ErrBarcodeExhausted signals that no unique barcode value could be reserved
// within the attempt budget. It is a server-side failure, not a client input
// error, and must never be answered by silently assigning a duplicate.
var ErrBarcodeExhausted = errors.New("barcode: unable to reserve a unique value")

// TakenFunc reports whether a candidate value is already in use. The value is
// always upper-cased before the check, and implementations decide the scope
// (this service counts retired values of soft-deleted assets as taken).
type TakenFunc func(ctx context.Context, value string) (bool, error)

// ReserveUniqueBarcode derives a candidate from dealerCode and fixtureNo and
// returns the first value the oracle reports available. On collision the
// fixture token is perturbed as "{fixtureNo}-{attempt}" for up to
// maxRetryAttempts further derivations before giving up with
// ErrBarcodeExhausted.
//
// The reservation is advisory: two concurrent creations can both pass the
// oracle inside the same timestamp window. The store's unique index on live
// barcodeValue is the final arbiter; a duplicate-key error on insert is
// handled as if the oracle had said taken.
func ReserveUniqueBarcode(ctx context.Context, dealerCode, fixtureNo string, isTaken TakenFunc) (string, error) {
	candidate := DeriveBarcodeValue(dealerCode, fixtureNo)
	taken, err := isTaken(ctx, candidate)
	if err != nil {
		return "", fmt.Errorf("barcode availability check failed: %w", err)
	}
	if !taken {
		return candidate, nil
	}

	for attempt := 0; attempt < maxRetryAttempts; attempt++ {
		candidate = DeriveBarcodeValue(dealerCode, fmt.Sprintf("%s-%d", fixtureNo, attempt))
		taken, err = isTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("barcode availability check failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrBarcodeExhausted
}
