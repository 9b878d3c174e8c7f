package analysis

import "github.com/shopspring/decimal"

// Trend is a discrete label and display colour for a percent change.
type Trend struct {
	Label string
	Color string
}

var (
	strongUp   = decimal.NewFromInt(2)
	mildUp     = decimal.NewFromFloat(0.5)
	strongDown = decimal.NewFromInt(-2)
	mildDown   = decimal.NewFromFloat(-0.5)
)

// Classify maps a percent change to one of five trends. Comparisons are
// strict, so boundary values (exactly 2, 0.5, -0.5, -2) land on the less
// extreme side.
func Classify(changePct decimal.Decimal) Trend {
	switch {
	case changePct.GreaterThan(strongUp):
		return Trend{Label: "Strong Upward", Color: "green"}
	case changePct.GreaterThan(mildUp):
		return Trend{Label: "Upward", Color: "lightgreen"}
	case changePct.LessThan(strongDown):
		return Trend{Label: "Strong Downward", Color: "red"}
	case changePct.LessThan(mildDown):
		return Trend{Label: "Downward", Color: "lightcoral"}
	default:
		return Trend{Label: "Stable", Color: "gray"}
	}
}
