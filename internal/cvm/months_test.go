package cvm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLastMonths(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("excludes the current month", func(t *testing.T) {
		months := LastMonths(3, now)
		assert.Equal(t, []string{"202402", "202401", "202312"}, months)
	})

	t.Run("crosses year boundaries", func(t *testing.T) {
		months := LastMonths(9, now)
		assert.Len(t, months, 9)
		assert.Equal(t, "202402", months[0])
		assert.Equal(t, "202306", months[8])
	})

	t.Run("zero months", func(t *testing.T) {
		assert.Empty(t, LastMonths(0, now))
	})

	t.Run("anchored at first of month", func(t *testing.T) {
		// Jan 31 minus one month must not skip December.
		months := LastMonths(2, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, []string{"202312", "202311"}, months)
	})
}
