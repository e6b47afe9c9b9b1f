package analytics

import "time"

// SalesSummary is the admin sales dashboard payload
type SalesSummary struct {
	TotalSeats     int64     `json:"total_seats"`
	SeatsSold      int64     `json:"seats_sold"`
	SeatsBlocked   int64     `json:"seats_blocked"`
	SeatsAvailable int64     `json:"seats_available"`
	OrderCount     int64     `json:"order_count"`
	Revenue        float64   `json:"revenue"`
	OccupancyPct   float64   `json:"occupancy_pct"`
	GeneratedAt    time.Time `json:"generated_at"`
}
