package analytics

// BookingStats is the admin dashboard summary
type BookingStats struct {
	TodayBookings       int64 `json:"todayBookings"`
	ActiveBookings      int64 `json:"activeBookings"`
	MonthlyRevenue      int64 `json:"monthlyRevenue"`
	PendingVerification int64 `json:"pendingVerification"`
}

type StatsQuery struct {
	VenueID string `form:"venueId" binding:"omitempty,uuid"`
}
