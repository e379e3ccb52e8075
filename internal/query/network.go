package query

import "github.com/galacticcic/galacticcic/internal/store"

// NetworkSparkline returns the sparkline string for active_connections
// over the trailing `hours` window.
func NetworkSparkline(s *store.Store, now, hours float64, width int) (string, error) {
	rows, err := s.RecentNetworkMetrics(now, hours, width)
	if err != nil {
		return "", err
	}

	// RecentNetworkMetrics returns newest-first; sparklines read oldest-first.
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[len(rows)-1-i] = float64(r.ActiveConnections)
	}
	return Sparkline(values, width), nil
}

// NetworkAverage returns the mean active_connections over the trailing
// `hours` window, or 0 when there is no data.
func NetworkAverage(s *store.Store, now, hours float64) (float64, error) {
	rows, err := s.RecentNetworkMetrics(now, hours, 10_000)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var sum float64
	for _, r := range rows {
		sum += float64(r.ActiveConnections)
	}
	return sum / float64(len(rows)), nil
}
