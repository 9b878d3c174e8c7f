// Package alerting decides whether a price move warrants an alert and
// delivers HTML mail notifications for fired alerts.
package alerting

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects which direction of movement can fire an alert.
type Mode string

const (
	ModeDrop Mode = "drop"
	ModeRise Mode = "rise"
	ModeBoth Mode = "both"
)

// ParseMode normalises user input, defaulting to both.
func ParseMode(s string) Mode {
	switch strings.ToLower(s) {
	case string(ModeDrop):
		return ModeDrop
	case string(ModeRise):
		return ModeRise
	default:
		return ModeBoth
	}
}

// Direction reports which way a fired alert moved.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionDrop Direction = "drop"
	DirectionRise Direction = "rise"
)

// Config carries the user-selected alert controls for one render.
type Config struct {
	Enabled      bool
	Mode         Mode
	ThresholdPct decimal.Decimal
}

// Evaluate compares a percent change against the threshold for the given
// mode. Drop fires at changePct <= -threshold, rise at >= threshold; both
// checks drop first. Pure, no side effects.
func Evaluate(mode Mode, thresholdPct, changePct decimal.Decimal) (bool, Direction) {
	drop := changePct.LessThanOrEqual(thresholdPct.Neg())
	rise := changePct.GreaterThanOrEqual(thresholdPct)

	switch mode {
	case ModeDrop:
		if drop {
			return true, DirectionDrop
		}
	case ModeRise:
		if rise {
			return true, DirectionRise
		}
	case ModeBoth:
		if drop {
			return true, DirectionDrop
		}
		if rise {
			return true, DirectionRise
		}
	}
	return false, DirectionNone
}
