package indicators

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/adaptive/pricing"
)

// ErrMalformed reports an indicator value that is undefined outside its
// warm-up window, or a non-finite input price.
var ErrMalformed = errors.New("indicators: malformed input")

// Field names one column of the enriched series.
type Field int

const (
	FieldOpen Field = iota
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
	FieldSMA20
	FieldSMA50
	FieldSMA200
	FieldEMA12
	FieldEMA26
	FieldATR
	FieldBBUpper
	FieldBBMiddle
	FieldBBLower
	FieldBBWidth
	FieldRSI
	FieldMACDDiff
	FieldMACDSignal
	FieldADX
	FieldVolumeSMA
	FieldOBV
	FieldPriceStd
	FieldZScore
	FieldTrendStrength

	numFields
)

var fieldNames = [numFields]string{
	"open", "high", "low", "close", "volume",
	"sma_20", "sma_50", "sma_200", "ema_12", "ema_26",
	"atr", "bb_upper", "bb_middle", "bb_lower", "bb_width",
	"rsi", "macd", "macd_signal", "adx",
	"volume_sma", "obv", "price_std", "z_score", "trend_strength",
}

// first defined index of every field
var fieldWarmup = [numFields]int{
	FieldSMA20:         19,
	FieldSMA50:         49,
	FieldSMA200:        199,
	FieldEMA12:         11,
	FieldEMA26:         25,
	FieldATR:           13,
	FieldBBUpper:       19,
	FieldBBMiddle:      19,
	FieldBBLower:       19,
	FieldBBWidth:       19,
	FieldRSI:           13,
	FieldMACDDiff:      33,
	FieldMACDSignal:    33,
	FieldADX:           28,
	FieldVolumeSMA:     19,
	FieldPriceStd:      19,
	FieldZScore:        19,
	FieldTrendStrength: 49,
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Warmup returns the first bar index at which the field is defined.
func (f Field) Warmup() int {
	if f < 0 || f >= numFields {
		return 0
	}
	return fieldWarmup[f]
}

// Fields returns every field in column order.
func Fields() []Field {
	out := make([]Field, numFields)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Bar is one row of the enriched series. Indicator fields are NaN until
// their warm-up index.
type Bar struct {
	Time time.Time

	Open, High, Low, Close, Volume float64

	SMA20, SMA50, SMA200 float64
	EMA12, EMA26         float64

	ATR                                float64
	BBUpper, BBMiddle, BBLower, BBWidth float64

	RSI                  float64
	MACDDiff, MACDSignal float64
	ADX                  float64

	VolumeSMA, OBV float64

	PriceStd, ZScore, TrendStrength float64
}

// Get returns the raw value of f, which may be NaN.
func (b *Bar) Get(f Field) float64 {
	switch f {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	case FieldClose:
		return b.Close
	case FieldVolume:
		return b.Volume
	case FieldSMA20:
		return b.SMA20
	case FieldSMA50:
		return b.SMA50
	case FieldSMA200:
		return b.SMA200
	case FieldEMA12:
		return b.EMA12
	case FieldEMA26:
		return b.EMA26
	case FieldATR:
		return b.ATR
	case FieldBBUpper:
		return b.BBUpper
	case FieldBBMiddle:
		return b.BBMiddle
	case FieldBBLower:
		return b.BBLower
	case FieldBBWidth:
		return b.BBWidth
	case FieldRSI:
		return b.RSI
	case FieldMACDDiff:
		return b.MACDDiff
	case FieldMACDSignal:
		return b.MACDSignal
	case FieldADX:
		return b.ADX
	case FieldVolumeSMA:
		return b.VolumeSMA
	case FieldOBV:
		return b.OBV
	case FieldPriceStd:
		return b.PriceStd
	case FieldZScore:
		return b.ZScore
	case FieldTrendStrength:
		return b.TrendStrength
	}
	return math.NaN()
}

// Series is the enriched time series, one Bar per input candle in order.
// It is read-only once built.
type Series struct {
	Symbol string
	Bars   []Bar
}

// NewSeries wraps prebuilt bars. Callers that construct bars by hand are
// responsible for NaN-filling undefined fields.
func NewSeries(symbol string, bars []Bar) *Series {
	return &Series{Symbol: symbol, Bars: bars}
}

func (s *Series) Len() int {
	return len(s.Bars)
}

// Value returns field f of bar i. A NaN before the field's warm-up index is
// returned as a missing value; anything non-finite after it is ErrMalformed.
func (s *Series) Value(f Field, i int) (float64, error) {
	if i < 0 || i >= len(s.Bars) {
		return 0, fmt.Errorf("indicators: index %d out of range [0,%d)", i, len(s.Bars))
	}
	v := s.Bars[i].Get(f)
	if math.IsInf(v, 0) || (math.IsNaN(v) && i >= f.Warmup()) {
		return 0, fmt.Errorf("%w: %s undefined at bar %d", ErrMalformed, f, i)
	}
	return v, nil
}

// Compute enriches candles with every indicator field.
func Compute(candles []pricing.Candle) (*Series, error) {
	if len(candles) == 0 {
		return nil, pricing.ErrEmpty
	}

	var (
		sma20  = NewMA(20)
		sma50  = NewMA(50)
		sma200 = NewMA(200)
		ema12  = NewEMA(12)
		ema26  = NewEMA(26)
		atr    = NewATR(14)
		bb     = NewBollinger(20, 2)
		rsi    = NewRSI(14)
		macd   = NewMACD(12, 26, 9)
		adx    = NewADX(14)
		volSMA = NewMAOf(20, Volume)
		obv    = NewOBV()
		std    = NewStdDev(20)
	)
	all := []Indicator{sma20, sma50, sma200, ema12, ema26, atr, bb, rsi, macd, adx, volSMA, obv, std}

	symbol := candles[0].Instrument
	bars := make([]Bar, len(candles))
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: candle %d: %v", ErrMalformed, i, err)
		}
		for _, ind := range all {
			ind.Update(c)
		}

		b := Bar{
			Time:   c.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,

			SMA20:     valueOrNaN(sma20),
			SMA50:     valueOrNaN(sma50),
			SMA200:    valueOrNaN(sma200),
			EMA12:     valueOrNaN(ema12),
			EMA26:     valueOrNaN(ema26),
			ATR:       valueOrNaN(atr),
			RSI:       valueOrNaN(rsi),
			ADX:       valueOrNaN(adx),
			VolumeSMA: valueOrNaN(volSMA),
			OBV:       valueOrNaN(obv),
			PriceStd:  valueOrNaN(std),

			BBUpper: math.NaN(), BBMiddle: math.NaN(), BBLower: math.NaN(), BBWidth: math.NaN(),
			MACDDiff: math.NaN(), MACDSignal: math.NaN(),
			ZScore: math.NaN(), TrendStrength: math.NaN(),
		}

		if bb.Ready() {
			b.BBUpper, b.BBMiddle, b.BBLower = bb.Bands()
			b.BBWidth = bb.Width()
		}
		if macd.Ready() {
			b.MACDDiff = macd.Value()
			b.MACDSignal = macd.Signal()
		}
		if sma20.Ready() && std.Ready() {
			b.ZScore = 0
			if b.PriceStd > 0 {
				b.ZScore = (c.Close - b.SMA20) / b.PriceStd
			}
		}
		if sma50.Ready() && atr.Ready() {
			b.TrendStrength = 0
			if b.ATR > 0 {
				b.TrendStrength = math.Abs(b.SMA20-b.SMA50) / b.ATR
			}
		}
		bars[i] = b
	}

	return NewSeries(symbol, bars), nil
}

func valueOrNaN(ind interface {
	Indicator
	ValueF64
}) float64 {
	if !ind.Ready() {
		return math.NaN()
	}
	return ind.Value()
}
