package monitor

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/SamSkjord/open-TPT-sub002/internal/history"
)

// handleTrendsChart renders a quick line chart (HTML) of one corner's
// trend bands using go-echarts. This is a debugging-only endpoint (no
// auth) to eyeball EMA behaviour without the dashboard UI.
// Query params:
//   - corner (default FL)
//   - zone (inner/centre/outer, default centre)
func (ws *WebServer) handleTrendsChart(w http.ResponseWriter, r *http.Request) {
	if ws.plotter == nil {
		ws.writeJSONError(w, http.StatusNotFound, "trend sampling not enabled")
		return
	}

	cornerParam := r.URL.Query().Get("corner")
	if cornerParam == "" {
		cornerParam = "FL"
	}
	corner, ok := parseCornerParam(cornerParam)
	if !ok {
		ws.writeJSONError(w, http.StatusBadRequest, "unknown corner")
		return
	}

	zone := r.URL.Query().Get("zone")
	if zone == "" {
		zone = "centre"
	}
	pick, ok := zonePicker(zone)
	if !ok {
		ws.writeJSONError(w, http.StatusBadRequest, "zone must be inner, centre or outer")
		return
	}

	samples := ws.plotter.Samples(corner)
	if len(samples) == 0 {
		ws.writeJSONError(w, http.StatusNotFound, "no samples for corner yet")
		return
	}

	x := make([]string, 0, len(samples))
	current := make([]opts.LineData, 0, len(samples))
	ema5s := make([]opts.LineData, 0, len(samples))
	ema30s := make([]opts.LineData, 0, len(samples))
	ema5m := make([]opts.LineData, 0, len(samples))
	for _, s := range samples {
		b := pick(s)
		if !b.Initialised {
			continue
		}
		x = append(x, fmt.Sprintf("%d", s.FrameIdx))
		current = append(current, opts.LineData{Value: b.Current})
		ema5s = append(ema5s, opts.LineData{Value: b.EMA5s})
		ema30s = append(ema30s, opts.LineData{Value: b.EMA30s})
		ema5m = append(ema5m, opts.LineData{Value: b.EMA5m})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tyre Zone Trends", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s zone", corner.Short(), zone),
			Subtitle: fmt.Sprintf("samples=%d", len(x)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Temperature (C)"}),
	)
	line.SetXAxis(x).
		AddSeries("current", current).
		AddSeries("ema_5s", ema5s).
		AddSeries("ema_30s", ema30s).
		AddSeries("ema_5m", ema5m)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func zonePicker(zone string) (func(ZoneSample) history.Bands, bool) {
	switch zone {
	case "inner":
		return func(s ZoneSample) history.Bands { return s.Inner }, true
	case "centre", "center":
		return func(s ZoneSample) history.Bands { return s.Centre }, true
	case "outer":
		return func(s ZoneSample) history.Bands { return s.Outer }, true
	}
	return nil, false
}
