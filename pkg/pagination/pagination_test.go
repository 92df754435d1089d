package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{
		-1:  DefaultLimit,
		0:   DefaultLimit,
		10:  10,
		100: 100,
		101: MaxLimit,
	}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Errorf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2026, time.March, 1, 12, 30, 0, 0, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(cursor))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected a cursor")
	}
	if !parsed.CreatedAt.Equal(cursor.CreatedAt) || parsed.ID != cursor.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, cursor)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	parsed, err := ParseCursor("  ")
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if parsed != nil {
		t.Fatal("empty token should mean the first page")
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("not-a-cursor!"); err == nil {
		t.Fatal("expected an error for a malformed token")
	}
}

func TestParseCursorRejectsIncomplete(t *testing.T) {
	token := EncodeCursor(Cursor{})
	if _, err := ParseCursor(token); err == nil {
		t.Fatal("expected an error for a cursor missing its components")
	}
}
