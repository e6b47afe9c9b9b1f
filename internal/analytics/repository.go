package analytics

import (
	"context"

	"gorm.io/gorm"

	"stagepass/internal/orders"
	"stagepass/internal/seats"
)

type Repository interface {
	GetSalesSummary(ctx context.Context) (*SalesSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetSalesSummary aggregates seat and order counts in a handful of small
// queries. Seats sold means sold through an order; seats blocked means
// occupied by an admin edit with no order behind them.
func (r *repository) GetSalesSummary(ctx context.Context) (*SalesSummary, error) {
	var summary SalesSummary
	db := r.db.WithContext(ctx)

	if err := db.Model(&seats.Seat{}).Count(&summary.TotalSeats).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&seats.Seat{}).
		Where("order_id IS NOT NULL").
		Count(&summary.SeatsSold).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&seats.Seat{}).
		Where("status = ? AND order_id IS NULL", seats.StatusOccupied).
		Count(&summary.SeatsBlocked).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&orders.Order{}).Count(&summary.OrderCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&orders.Order{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Scan(&summary.Revenue).Error; err != nil {
		return nil, err
	}

	summary.SeatsAvailable = summary.TotalSeats - summary.SeatsSold - summary.SeatsBlocked
	if summary.TotalSeats > 0 {
		summary.OccupancyPct = float64(summary.SeatsSold) / float64(summary.TotalSeats) * 100
	}

	return &summary, nil
}
