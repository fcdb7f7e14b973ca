package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowPrevious_AdjacentToHandlerShapedWindow(t *testing.T) {
	w := Window{
		Start: time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 14, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
	}

	prev := w.Previous()

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, w.Start.Add(-time.Nanosecond), prev.End)
	assert.Equal(t, w.Days(), prev.Days())
}

func TestWindowPrevious_NoGapNoOverlap(t *testing.T) {
	w := Window{
		Start: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 10, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
	}

	prev := w.Previous()

	// A purchase at any instant before the window start is inside the
	// previous window, and vice versa.
	assert.True(t, prev.End.Before(w.Start))
	assert.Equal(t, time.Duration(1), w.Start.Sub(prev.End))
	assert.Equal(t, time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC), prev.Start)
}
