package service

const (
	// Start-time scan bounds when the caller gives none
	DefaultScanFromHour = 6
	DefaultScanToHour   = 20

	// Pagination limit for plan listings
	PlanListLimit = 50
)
