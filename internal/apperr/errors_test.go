package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("repeat must be positive")

	if err.Error() != "repeat must be positive" {
		t.Errorf("expected 'repeat must be positive', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("yaml: line 3: did not find expected key")
	err := apperr.NewValidationWrap("parse bench spec", inner)

	if err.Error() != "parse bench spec: yaml: line 3: did not find expected key" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestNewFieldValidation(t *testing.T) {
	err := apperr.NewFieldValidation("datasets[1]", `unknown dataset "zigzag"`)

	if err.Error() != `datasets[1]: unknown dataset "zigzag"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestNewValidationf(t *testing.T) {
	err := apperr.NewValidationf("size must be positive, got %d", -3)

	if err.Message != "size must be positive, got -3" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unknown algorithm")

	wrapped := fmt.Errorf("resolve config: %w", original)
	doubleWrapped := fmt.Errorf("load bench spec: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "unknown algorithm" {
		t.Errorf("expected 'unknown algorithm', got %q", ve.Message)
	}
	if !apperr.IsValidation(doubleWrapped) {
		t.Error("IsValidation should report true through wrapping")
	}
}

func TestValidationError_NotFoundForPlainErrors(t *testing.T) {
	plain := fmt.Errorf("permission denied")
	wrapped := fmt.Errorf("write results csv: %w", plain)

	var ve *apperr.ValidationError
	if errors.As(wrapped, &ve) {
		t.Fatal("errors.As should NOT find ValidationError in plain error chain")
	}
	if apperr.IsValidation(wrapped) {
		t.Fatal("IsValidation should be false for plain errors")
	}
}
