package domain

// BusinessStats is the dashboard summary. ProfileViews and CustomerLeads are
// placeholder values, not measurements.
type BusinessStats struct {
	TotalProducts  int64
	ActiveProducts int64
	ProfileViews   int
	CustomerLeads  int
}
