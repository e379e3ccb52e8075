package query

import "github.com/galacticcic/galacticcic/internal/store"

// ServerPoint is one plotted sample for the Server Health panel.
type ServerPoint struct {
	Timestamp  float64
	CPUPercent float64
	MemPercent float64
	DiskGB     float64
}

// RecentServer returns up to limit points from the trailing `hours`
// window, newest first, with CPU/MEM already converted to percentages.
func RecentServer(s *store.Store, now float64, hours float64, limit int) ([]ServerPoint, error) {
	rows, err := s.RecentServerMetrics(now, hours, limit)
	if err != nil {
		return nil, err
	}

	points := make([]ServerPoint, 0, len(rows))
	for _, r := range rows {
		memPct := 0.0
		if r.MemTotalMB > 0 {
			memPct = 100 * r.MemUsedMB / r.MemTotalMB
		}
		points = append(points, ServerPoint{
			Timestamp:  r.Timestamp,
			CPUPercent: r.CPUPercent,
			MemPercent: memPct,
			DiskGB:     r.DiskUsedGB,
		})
	}
	return points, nil
}

// ServerAveragesResult mirrors store.ServerAverages with plain float64
// pointers so renderer code doesn't need to import database/sql.
type ServerAveragesResult struct {
	CPUPercent  *float64
	MemPercent  *float64
	DiskPercent *float64
}

// ServerAverages computes 24h averages, nil for any metric with no data.
func ServerAverages(s *store.Store, now float64, hours float64) (ServerAveragesResult, error) {
	avg, err := s.ServerAveragesWindow(now, hours)
	if err != nil {
		return ServerAveragesResult{}, err
	}

	var out ServerAveragesResult
	if avg.CPUPercent.Valid {
		v := avg.CPUPercent.Float64
		out.CPUPercent = &v
	}
	if avg.MemPercent.Valid {
		v := avg.MemPercent.Float64
		out.MemPercent = &v
	}
	if avg.DiskPercent.Valid {
		v := avg.DiskPercent.Float64
		out.DiskPercent = &v
	}
	return out, nil
}

// MetricTrend compares the latest sample of metric ("cpu_percent",
// "mem_percent", or "disk_percent") against the one nearest `now - lag`.
func MetricTrend(s *store.Store, metric string, now, lagSeconds float64) (Arrow, error) {
	latestRows, err := s.RecentServerMetrics(now, 24*30, 1)
	if err != nil {
		return ArrowUnknown, err
	}
	if len(latestRows) == 0 {
		return ArrowUnknown, nil
	}

	var latest float64
	switch metric {
	case "cpu_percent":
		latest = latestRows[0].CPUPercent
	case "mem_percent":
		if latestRows[0].MemTotalMB <= 0 {
			return ArrowUnknown, nil
		}
		latest = 100 * latestRows[0].MemUsedMB / latestRows[0].MemTotalMB
	case "disk_percent":
		if latestRows[0].DiskTotalGB <= 0 {
			return ArrowUnknown, nil
		}
		latest = 100 * latestRows[0].DiskUsedGB / latestRows[0].DiskTotalGB
	}

	reference, found, err := s.MetricSampleNear(metric, now, now-lagSeconds)
	if err != nil {
		return ArrowUnknown, err
	}

	return Trend(latest, reference, found), nil
}
