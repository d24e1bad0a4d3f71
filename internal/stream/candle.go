package stream

import (
	"math"

	"github.com/YogiRajNeelamsetti/coinpulse/internal/model"
)

// liveCandle accumulates the current minute's OHLC from discrete price
// samples. Exactly one candle exists at a time; it is the still-forming
// period's summary, revised on every sample until the minute rolls over.
type liveCandle struct {
	current model.Candle
	started bool
}

// update folds one price sample into the live candle and returns the revised
// candle. The bucket is the sample's minute: floor(tsMs/60000)*60, in epoch
// seconds.
//
// Within a period, high/low only widen and close tracks the latest price.
// On rollover the new candle opens at the previous close, so consecutive
// candles join without gaps.
func (lc *liveCandle) update(price float64, tsMs int64) model.Candle {
	periodStart := tsMs / 60_000 * 60

	if lc.started && lc.current.PeriodStart == periodStart {
		lc.current.High = math.Max(lc.current.High, price)
		lc.current.Low = math.Min(lc.current.Low, price)
		lc.current.Close = price
		return lc.current
	}

	open := price
	if lc.started {
		open = lc.current.Close
	}

	lc.current = model.Candle{
		PeriodStart: periodStart,
		Open:        open,
		High:        math.Max(open, price),
		Low:         math.Min(open, price),
		Close:       price,
	}
	lc.started = true

	return lc.current
}
