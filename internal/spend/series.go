// Package spend holds the monthly spend series and the spike check run over it.
package spend

import (
	"context"

	"github.com/theirongolddev/cloud9/internal/api"

	"github.com/rs/zerolog"
)

// Point is one period of spend. Period is an opaque label such as "Jan".
type Point struct {
	Period string
	Amount float64
}

// Series is ordered oldest first. Order is taken as received.
type Series []Point

// FromParallel zips the months and spend arrays of the history endpoint.
// Extra entries on the longer side are dropped.
func FromParallel(months []string, amounts []float64) Series {
	n := min(len(months), len(amounts))
	s := make(Series, n)
	for i := range n {
		s[i] = Point{Period: months[i], Amount: amounts[i]}
	}
	return s
}

// Periods returns the period labels in order.
func (s Series) Periods() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Period
	}
	return out
}

// Amounts returns the amounts in order.
func (s Series) Amounts() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Amount
	}
	return out
}

// Fetcher is the slice of the API client the loader needs.
type Fetcher interface {
	SpendHistory(ctx context.Context) (api.SpendHistory, error)
}

// Load fetches the spend history once. On failure the series is empty and
// the error is logged on the context logger before being returned.
func Load(ctx context.Context, f Fetcher) (Series, error) {
	h, err := f.SpendHistory(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("error fetching spend history")
		return Series{}, err
	}
	return FromParallel(h.Months, h.Spend), nil
}
