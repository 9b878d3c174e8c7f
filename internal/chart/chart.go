// Package chart renders the price trend graphic: price line, trailing
// moving average, and the derived high/low envelope.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gold-silver-alerts/internal/analysis"
	"gold-silver-alerts/internal/market"
)

var (
	goldStroke   = drawing.Color{R: 255, G: 215, B: 0, A: 255}
	silverStroke = drawing.Color{R: 160, G: 160, B: 160, A: 255}
	maStroke     = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	highStroke   = drawing.Color{R: 0, G: 255, B: 0, A: 80}
	lowStroke    = drawing.Color{R: 255, G: 0, B: 0, A: 80}
	bandFill     = drawing.Color{R: 0, G: 100, B: 80, A: 26}
)

// Render produces a PNG of the series. Values on the axis and in the
// legend are formatted to two decimal places with the currency symbol.
func Render(series market.Series, metal market.Metal, currency market.Currency) ([]byte, error) {
	if len(series) == 0 {
		return nil, errors.New("empty series")
	}

	x := make([]time.Time, len(series))
	price := make([]float64, len(series))
	high := make([]float64, len(series))
	low := make([]float64, len(series))
	for i, p := range series {
		x[i] = p.Date
		price[i] = p.Price.InexactFloat64()
		high[i] = p.High.InexactFloat64()
		low[i] = p.Low.InexactFloat64()
	}

	priceStroke := goldStroke
	if metal == market.Silver {
		priceStroke = silverStroke
	}

	priceFormatter := func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%s%.2f", currency.Sign(), f)
		}
		return ""
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s Price Trend (4 Days, %s)", metal.Title(), currency),
		Width:  1024,
		Height: 500,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           fmt.Sprintf("Price (%s)", currency),
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "High",
				XValues: x,
				YValues: high,
				Style: chart.Style{
					StrokeColor: highStroke,
					StrokeWidth: 1,
				},
			},
			chart.TimeSeries{
				Name:    "Low",
				XValues: x,
				YValues: low,
				Style: chart.Style{
					StrokeColor: lowStroke,
					StrokeWidth: 1,
					FillColor:   bandFill,
				},
			},
			chart.TimeSeries{
				Name:    "Price",
				XValues: x,
				YValues: price,
				Style: chart.Style{
					StrokeColor: priceStroke,
					StrokeWidth: 3,
					DotWidth:    3,
					DotColor:    priceStroke,
				},
			},
			movingAverageSeries(series),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// movingAverageSeries plots the trailing mean, dotted, only over the
// positions where the rolling window has filled.
func movingAverageSeries(series market.Series) chart.TimeSeries {
	window := len(series)
	if window > 4 {
		window = 4
	}

	ma := analysis.MovingAverage(series, window)

	x := make([]time.Time, 0, len(series))
	y := make([]float64, 0, len(series))
	for i := window - 1; i < len(series); i++ {
		x = append(x, series[i].Date)
		y = append(y, ma[i].InexactFloat64())
	}

	return chart.TimeSeries{
		Name:    "Moving Average",
		XValues: x,
		YValues: y,
		Style: chart.Style{
			StrokeColor:     maStroke,
			StrokeWidth:     2,
			StrokeDashArray: []float64{3.0, 3.0},
		},
	}
}
