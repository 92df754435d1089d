package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeIdempotency, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOT_A_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := Wrap(CodeNotFound, cause, "registration not found")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("expected NOT_FOUND code, got %s", err.Code())
	}
	if err.Error() != fmt.Sprintf("%s: registration not found", CodeNotFound) {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
}

func TestAsExtractsTypedError(t *testing.T) {
	typed := New(CodeStateConflict, "entry closed")
	wrapped := fmt.Errorf("toggle withdrawal: %w", typed)

	got := As(wrapped)
	if got == nil {
		t.Fatal("expected typed error in chain")
	}
	if got.Code() != CodeStateConflict {
		t.Fatalf("unexpected code %s", got.Code())
	}
}

func TestDumpBuildsChain(t *testing.T) {
	base := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, base, "persisting schedule")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected dump code %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected at least 2 chain entries, got %d", len(d.Chain))
	}
}

func TestDumpExtractsPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23503",
		ConstraintName: "event_registrations_withdrawal_fee_id_fkey",
		Detail:         "Key is still referenced from table \"event_registrations\".",
		Message:        "update or delete on table \"fees\" violates foreign key constraint",
	}
	err := Wrap(CodeDependency, pgErr, "destroying unpaid withdrawal fee")

	d := Dump(err)
	if d.PGCode != "23503" {
		t.Fatalf("pg code = %q, want 23503", d.PGCode)
	}
	if d.PGConstraint != "event_registrations_withdrawal_fee_id_fkey" {
		t.Fatalf("unexpected pg constraint %q", d.PGConstraint)
	}
	if d.PGDetail == "" || d.PGMessage == "" {
		t.Fatalf("pg detail/message not carried: %+v", d)
	}
}
