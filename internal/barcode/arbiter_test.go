package barcode

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func TestReserveUniqueBarcodeFirstCandidate(t *testing.T) {
	calls := 0
	value, err := ReserveUniqueBarcode(context.Background(), "ACME", "F100", func(ctx context.Context, v string) (bool, error) {
		calls++
		return false, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single availability check, got %d", calls)
	}

	pattern := regexp.MustCompile(`^ACME-F100-\d{6}$`)
	if !pattern.MatchString(value) {
		t.Errorf("unexpected value: %q", value)
	}
}

func TestReserveUniqueBarcodeRetriesWithPerturbedToken(t *testing.T) {
	var candidates []string
	value, err := ReserveUniqueBarcode(context.Background(), "ACME", "F100", func(ctx context.Context, v string) (bool, error) {
		candidates = append(candidates, v)
		// first candidate collides, first retry is free
		return len(candidates) == 1, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 availability checks, got %d", len(candidates))
	}

	retry := regexp.MustCompile(`^ACME-F100-0-\d{6}$`)
	if !retry.MatchString(value) {
		t.Errorf("retry candidate not perturbed with attempt counter: %q", value)
	}
}

func TestReserveUniqueBarcodeExhaustsAfterBudget(t *testing.T) {
	calls := 0
	_, err := ReserveUniqueBarcode(context.Background(), "ACME", "F100", func(ctx context.Context, v string) (bool, error) {
		calls++
		return true, nil
	})
	if !errors.Is(err, ErrBarcodeExhausted) {
		t.Fatalf("expected ErrBarcodeExhausted, got %v", err)
	}
	// initial candidate plus maxRetryAttempts perturbed ones
	if calls != 1+maxRetryAttempts {
		t.Errorf("expected %d availability checks, got %d", 1+maxRetryAttempts, calls)
	}
}

func TestReserveUniqueBarcodePropagatesOracleError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := ReserveUniqueBarcode(context.Background(), "ACME", "F100", func(ctx context.Context, v string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped oracle error, got %v", err)
	}
	if errors.Is(err, ErrBarcodeExhausted) {
		t.Errorf("oracle failure must not report exhaustion")
	}
}
