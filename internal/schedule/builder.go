package schedule

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bybauk/byba-backend/pkg/enums"
	"github.com/bybauk/byba-backend/pkg/types"
)

// BreakDescription is the slot text used for inserted breaks.
const BreakDescription = "Break"

// Config is the generation configuration of one event schedule.
type Config struct {
	OrderType   enums.ScheduleOrderType
	StartTime   string // HH:MM, on the event's start day
	AddBreaks   bool
	BreakType   enums.BreakType
	BreakNum    int
	BreakLength int
	LateOnFirst bool
	Manual      bool
}

// Validate checks the configuration without touching any state.
func (c Config) Validate() error {
	if !c.OrderType.IsValid() {
		return fmt.Errorf("invalid order type %q", c.OrderType)
	}
	if _, err := ParseStartTime(c.StartTime); err != nil {
		return err
	}
	if c.AddBreaks {
		if !c.BreakType.IsValid() {
			return fmt.Errorf("invalid break type %q", c.BreakType)
		}
		if c.BreakNum <= 0 {
			return fmt.Errorf("break threshold must be positive")
		}
		if c.BreakLength <= 0 {
			return fmt.Errorf("break length must be positive")
		}
	}
	return nil
}

// ParseStartTime parses an HH:MM start time.
func ParseStartTime(value string) (time.Time, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q (want HH:MM): %w", value, err)
	}
	return parsed, nil
}

// Entrant is one non-withdrawn registration annotated for scheduling.
type Entrant struct {
	OrganisationID uuid.UUID
	Name           string
	DivisionID     *uuid.UUID
	EntryDate      time.Time
	LeagueScore    float64
	Duration       int // minutes
}

// Slot is one timed row of the generated schedule.
type Slot struct {
	Start       time.Time
	Description string
	Duration    int
}

// Shuffler permutes n elements through swap. Production uses math/rand; tests
// inject a seeded or fixed source.
type Shuffler func(n int, swap func(i, j int))

// DefaultShuffler is a uniform shuffle.
func DefaultShuffler(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// BuildInput carries everything Build needs besides the configuration.
type BuildInput struct {
	EventStart    time.Time
	EntryCutoff   time.Time
	Entrants      []Entrant
	DivisionOrder []types.NullableUUID
}

// cursor is the accumulator threaded through the build. It is a value type:
// every step returns the next state, so each step is testable in isolation.
type cursor struct {
	at                time.Time
	bandsSinceBreak   int
	minutesSinceBreak int
}

func (c cursor) advance(minutes int) cursor {
	c.at = c.at.Add(time.Duration(minutes) * time.Minute)
	return c
}

func (c cursor) count(minutes int) cursor {
	c.bandsSinceBreak++
	c.minutesSinceBreak += minutes
	return c
}

func (c cursor) breakDue(cfg Config) bool {
	if !cfg.AddBreaks || cfg.BreakNum <= 0 {
		return false
	}
	if cfg.BreakType == enums.BreakTypeMinute {
		return c.minutesSinceBreak >= cfg.BreakNum
	}
	return c.bandsSinceBreak >= cfg.BreakNum
}

func (c cursor) resetCounters() cursor {
	c.bandsSinceBreak = 0
	c.minutesSinceBreak = 0
	return c
}

// Build computes the ordered slot list for an event. It is pure: no
// persistence happens here, and non-random configurations are fully
// deterministic for the same input.
//
// Divisions are visited in DivisionOrder; a division with no entrants emits
// nothing and does not advance the cursor. Break counters carry across
// division boundaries and reset only when a break fires.
func Build(cfg Config, input BuildInput, shuffle Shuffler) ([]Slot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if shuffle == nil {
		shuffle = DefaultShuffler
	}

	startOfDay, err := ParseStartTime(cfg.StartTime)
	if err != nil {
		return nil, err
	}

	cur := cursor{at: time.Date(
		input.EventStart.Year(), input.EventStart.Month(), input.EventStart.Day(),
		startOfDay.Hour(), startOfDay.Minute(), 0, 0,
		input.EventStart.Location(),
	)}

	groups := groupByDivision(input.Entrants)

	var slots []Slot
	for _, division := range input.DivisionOrder {
		entrants := groups[divisionKey(division.Value)]
		if len(entrants) == 0 {
			continue
		}

		ordered := orderEntrants(cfg, entrants, input.EntryCutoff, shuffle)
		for _, entrant := range ordered {
			slots = append(slots, Slot{
				Start:       cur.at,
				Description: entrant.Name,
				Duration:    entrant.Duration,
			})
			cur = cur.advance(entrant.Duration).count(entrant.Duration)

			if cur.breakDue(cfg) {
				slots = append(slots, Slot{
					Start:       cur.at,
					Description: BreakDescription,
					Duration:    cfg.BreakLength,
				})
				cur = cur.advance(cfg.BreakLength).resetCounters()
			}
		}
	}

	return slots, nil
}

// noDivisionKey buckets entrants without a division assignment.
const noDivisionKey = "none"

func divisionKey(id *uuid.UUID) string {
	if id == nil {
		return noDivisionKey
	}
	return id.String()
}

func groupByDivision(entrants []Entrant) map[string][]Entrant {
	groups := map[string][]Entrant{}
	for _, entrant := range entrants {
		key := divisionKey(entrant.DivisionID)
		groups[key] = append(groups[key], entrant)
	}
	return groups
}

func orderEntrants(cfg Config, entrants []Entrant, entryCutoff time.Time, shuffle Shuffler) []Entrant {
	regular := make([]Entrant, 0, len(entrants))
	var late []Entrant

	if cfg.LateOnFirst {
		for _, entrant := range entrants {
			if entrant.EntryDate.After(entryCutoff) {
				late = append(late, entrant)
				continue
			}
			regular = append(regular, entrant)
		}
		sort.SliceStable(late, func(i, j int) bool {
			return late[i].EntryDate.After(late[j].EntryDate)
		})
	} else {
		regular = append(regular, entrants...)
	}

	switch cfg.OrderType {
	case enums.ScheduleOrderEntryAsc:
		sort.SliceStable(regular, func(i, j int) bool {
			return regular[i].EntryDate.Before(regular[j].EntryDate)
		})
	case enums.ScheduleOrderEntryDesc:
		sort.SliceStable(regular, func(i, j int) bool {
			return regular[i].EntryDate.After(regular[j].EntryDate)
		})
	case enums.ScheduleOrderLeague:
		// worst score performs first
		sort.SliceStable(regular, func(i, j int) bool {
			return regular[i].LeagueScore < regular[j].LeagueScore
		})
	case enums.ScheduleOrderRandom:
		shuffle(len(regular), func(i, j int) {
			regular[i], regular[j] = regular[j], regular[i]
		})
	}

	return append(late, regular...)
}
