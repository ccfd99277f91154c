// internal/rules/clock.go
package rules

import (
	"time"

	"github.com/soluna/dayrate/internal/types"
)

// Clock supplies the current time. The engine never reads wall-clock time
// directly; callers inject a clock so every evaluation is reproducible.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// FixedClock returns a clock frozen at t. Test and replay helper.
func FixedClock(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ContextAt derives the evaluation context for a timestamp in the given
// location. A nil location means UTC.
func ContextAt(t time.Time, loc *time.Location) types.Context {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return types.Context{
		DayOfWeek: int(lt.Weekday()),
		Date:      lt.Format(types.DateLayout),
	}
}
