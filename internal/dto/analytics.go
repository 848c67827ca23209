package dto

// CategoryCounts is fixed-shape: every known category is present even
// when zero, so the dashboard chart legend never shifts.
type CategoryCounts struct {
	General  int `json:"general"`
	Bug      int `json:"bug"`
	Feature  int `json:"feature"`
	Question int `json:"question"`
}

// ChartPoint is one dense time bucket. Count includes rows whose stored
// category is outside the known four; the per-category fields do not.
type ChartPoint struct {
	Label    string `json:"label"` // "H:00" for hourly, calendar date for daily
	Count    int    `json:"count"`
	General  int    `json:"general"`
	Bug      int    `json:"bug"`
	Feature  int    `json:"feature"`
	Question int    `json:"question"`
}

type AnalyticsResponse struct {
	Total      int64          `json:"total"`
	Unread     int64          `json:"unread"`
	Today      int64          `json:"today"`
	ThisWeek   int64          `json:"thisWeek"`
	Categories CategoryCounts `json:"categories"`
	ChartData  []ChartPoint   `json:"chartData"`
}
