package fees

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

func testTiers() []models.EventTypeDiscount {
	return []models.EventTypeDiscount{
		{DiscountAfter: 0, DiscountMultiplier: decimal.NewFromFloat(1.0)},
		{DiscountAfter: 3, DiscountMultiplier: decimal.NewFromFloat(0.8)},
		{DiscountAfter: 6, DiscountMultiplier: decimal.NewFromFloat(0.5)},
	}
}

func TestMultiplierFor_TierTable(t *testing.T) {
	cost := decimal.NewFromInt(100)
	expected := []int64{100, 100, 100, 80, 80, 80, 50}

	for count := 1; count <= 7; count++ {
		fee := cost.Mul(MultiplierFor(count, testTiers())).Round(2)
		want := decimal.NewFromInt(expected[count-1])
		if !fee.Equal(want) {
			t.Errorf("count %d: fee = %s, want %s", count, fee, want)
		}
	}
}

func TestMultiplierFor_NoTiers(t *testing.T) {
	got := MultiplierFor(5, nil)
	if !got.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("multiplier without tiers = %s, want 1", got)
	}
}

func TestByEventStart_OrdersByCalendar(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mkReg := func(offsetDays int) models.EventRegistration {
		return models.EventRegistration{
			ID:    uuid.New(),
			Event: &models.Event{Start: base.AddDate(0, 0, offsetDays)},
			// entry order deliberately contradicts calendar order
			EntryDate: base.AddDate(0, 0, -offsetDays),
		}
	}

	input := []models.EventRegistration{mkReg(14), mkReg(0), mkReg(7)}
	got := ByEventStart(input).All()

	if got[0].Event.Start.Day() != 1 || got[1].Event.Start.Day() != 8 || got[2].Event.Start.Day() != 15 {
		t.Fatalf("unexpected calendar order: %v, %v, %v",
			got[0].Event.Start, got[1].Event.Start, got[2].Event.Start)
	}
	if input[0].Event.Start.Day() != 15 {
		t.Fatal("input slice was reordered")
	}
}
