package fees

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bybauk/byba-backend/pkg/db/models"
)

// MultiplierFor returns the discount multiplier in effect for the count-th
// eligible entry. Tiers must be sorted ascending by DiscountAfter; the
// multiplier is the one of the last tier whose threshold is below the count.
// An empty tier list means full price.
func MultiplierFor(count int, tiers []models.EventTypeDiscount) decimal.Decimal {
	multiplier := decimal.NewFromInt(1)
	for _, tier := range tiers {
		if tier.DiscountAfter >= count {
			break
		}
		multiplier = tier.DiscountMultiplier
	}
	return multiplier
}

// ChronologicalRegistrations holds an organisation's registrations ordered by
// event start ascending. Tier assignment walks this order, so it follows the
// event calendar rather than when each organisation entered.
type ChronologicalRegistrations struct {
	regs []models.EventRegistration
}

// ByEventStart sorts the given registrations into calendar order. The input
// slice is not modified.
func ByEventStart(regs []models.EventRegistration) ChronologicalRegistrations {
	sorted := make([]models.EventRegistration, len(regs))
	copy(sorted, regs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return eventStart(sorted[i]).Before(eventStart(sorted[j]))
	})
	return ChronologicalRegistrations{regs: sorted}
}

// All returns the registrations in calendar order.
func (c ChronologicalRegistrations) All() []models.EventRegistration {
	return c.regs
}

// Len reports how many registrations the list holds.
func (c ChronologicalRegistrations) Len() int {
	return len(c.regs)
}

func eventStart(reg models.EventRegistration) time.Time {
	if reg.Event == nil {
		return time.Time{}
	}
	return reg.Event.Start
}
