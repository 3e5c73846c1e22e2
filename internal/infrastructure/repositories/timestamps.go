package repositories

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// dbTime returns t the way a timestamptz column hands it back: UTC with
// microsecond precision. Write paths report it so a later read of the same
// row serializes identically.
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func dbNullTime(t null.Time) null.Time {
	if !t.Valid {
		return t
	}
	return null.TimeFrom(dbTime(t.Time))
}

func dbTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dbTime(*t)
	return &v
}
