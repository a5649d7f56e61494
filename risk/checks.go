package risk

import "fmt"

type Violation struct {
	Code string
	Msg  string
}

// Intent describes a position the strategy wants to open.
type Intent struct {
	Direction int // +1 long, -1 short
	Entry     float64
	ATR       float64
	SMA20     float64
	Strength  float64
}

// Decision is the fully planned entry: size, protective levels and the
// checks that ran against them. Warnings never block an entry.
type Decision struct {
	Allowed    bool
	Violations []Violation
	Warnings   []Violation

	Size       float64
	Stop       float64
	TakeProfit float64

	PlannedRR      float64
	PlannedRiskPct float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

func (d *Decision) warn(code, msg string) {
	d.Warnings = append(d.Warnings, Violation{Code: code, Msg: msg})
}

// Evaluate plans an entry under p.
func Evaluate(p Policy, in Intent) Decision {
	d := Decision{Allowed: true}

	if in.Direction != 1 && in.Direction != -1 {
		d.add("NO_DIRECTION", fmt.Sprintf("direction must be +1 or -1, got %d", in.Direction))
		return d
	}
	if in.Entry <= 0 {
		d.add("NO_ENTRY", fmt.Sprintf("entry must be positive, got %v", in.Entry))
		return d
	}

	d.Size = p.Size(in.Strength, in.ATR, in.Entry)
	d.Stop, d.TakeProfit = p.Stops(in.Direction, in.Entry, in.ATR, in.SMA20)
	d.PlannedRR = RR(in.Entry, d.Stop, d.TakeProfit)
	d.PlannedRiskPct = RiskPct(d.Size, in.Entry, d.Stop)

	if in.ATR <= 0 {
		d.warn("ZERO_RANGE", "true range is zero; stop sits on the entry price")
	}
	if d.Size >= p.MaxSize {
		d.warn("SIZE_CAPPED", fmt.Sprintf("size capped at %.2f", p.MaxSize))
	}

	return d
}
