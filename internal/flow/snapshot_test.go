package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func windowedAt(fund, date string, net float64) WindowedNetFlow {
	return WindowedNetFlow{DailyNetFlow: daily(fund, date, net)}
}

func TestSnapshot(t *testing.T) {
	t.Run("keeps only the global maximum date", func(t *testing.T) {
		windowed := []WindowedNetFlow{
			windowedAt("A", "2024-02-20", 1),
			windowedAt("A", "2024-03-01", 2),
			windowedAt("B", "2024-02-15", 3),
			windowedAt("B", "2024-02-20", 4),
		}

		snap, asOf := Snapshot(windowed)
		require.Len(t, snap, 1)
		assert.True(t, asOf.Equal(mustDate("2024-03-01")))
		assert.Equal(t, "A", snap[0].FundID)
	})

	t.Run("fund lagging behind the population is excluded", func(t *testing.T) {
		// B's sums as of its own last date are valid, but the snapshot is a
		// point-in-time cut across the whole population.
		windowed := []WindowedNetFlow{
			windowedAt("A", "2024-03-01", 10),
			windowedAt("B", "2024-02-20", 20),
		}

		snap, _ := Snapshot(windowed)
		require.Len(t, snap, 1)
		assert.Equal(t, "A", snap[0].FundID)
	})

	t.Run("multiple funds sharing the maximum date all survive", func(t *testing.T) {
		windowed := []WindowedNetFlow{
			windowedAt("A", "2024-03-01", 1),
			windowedAt("B", "2024-03-01", 2),
			windowedAt("C", "2024-02-28", 3),
		}

		snap, asOf := Snapshot(windowed)
		assert.Len(t, snap, 2)
		assert.True(t, asOf.Equal(mustDate("2024-03-01")))
	})

	t.Run("empty input yields empty snapshot", func(t *testing.T) {
		snap, asOf := Snapshot(nil)
		assert.Empty(t, snap)
		assert.True(t, asOf.IsZero())
	})
}

func TestNormalizeFundID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuated CNPJ", "12.345.678/0001-90", "12345678000190"},
		{"already bare", "12345678000190", "12345678000190"},
		{"surrounding noise", " 12.345.678/0001-90 ", "12345678000190"},
		{"empty", "", ""},
		{"no digits", "N/A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeFundID(tt.in))
		})
	}
}
