package pricing

import (
	"math"
	"math/rand"
	"time"
)

// GenerateSample builds a synthetic daily series: a slow cyclical drift plus
// 2% gaussian noise per bar, with wicks of about 1% and random volume.
// The same seed always yields the same series.
func GenerateSample(days int, seed int64) []Candle {
	if days <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	closes := make([]float64, days)
	closes[0] = 100
	for i := 1; i < days; i++ {
		trend := math.Sin(float64(i)/50) * 0.001
		noise := rng.NormFloat64() * 0.02
		closes[i] = math.Max(closes[i-1]*(1+trend+noise), 1)
	}

	out := make([]Candle, days)
	for i, c := range closes {
		high := c * (1 + math.Abs(rng.NormFloat64()*0.01))
		low := c * (1 - math.Abs(rng.NormFloat64()*0.01))
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		out[i] = Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   math.Max(open, math.Max(high, c)),
			Low:    math.Min(open, math.Min(low, c)),
			Close:  c,
			Volume: float64(100_000 + rng.Intn(900_000)),
		}
	}
	return out
}
