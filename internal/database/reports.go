package database

import (
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"

	"gorm.io/gorm"
)

// RevenueResult holds the figures the dashboards and the insights agent ask for
type RevenueResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetRevenue sums fully-approved sale totals within a date range, optionally
// for a single department. Only director_approved sales count as revenue.
func GetRevenue(department string, start, end time.Time) (*RevenueResult, error) {
	var result RevenueResult

	base := func() *gorm.DB {
		q := DB.Model(&models.Sale{}).
			Where("status = ?", "director_approved").
			Where("created_at BETWEEN ? AND ?", start, end)
		if department != "" {
			q = q.Where("department = ?", department)
		}
		return q
	}

	// COALESCE ensures we get 0 instead of NULL when no sales exist
	if err := base().Select("COALESCE(SUM(total), 0)").Scan(&result.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := base().Count(&result.TotalCount).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CountPendingApprovals counts non-terminal rows per collection, giving the
// director a single "how much is waiting on my team" figure.
func CountPendingApprovals() (map[string]int64, error) {
	counts := map[string]int64{}
	terminal := []string{"director_approved", "rejected"}

	var n int64
	if err := DB.Model(&models.Sale{}).Where("status NOT IN ?", terminal).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["sales"] = n

	if err := DB.Model(&models.Expense{}).Where("status NOT IN ?", terminal).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["expenses"] = n

	if err := DB.Model(&models.PurchaseOrder{}).Where("status NOT IN ?", terminal).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["purchase_orders"] = n

	if err := DB.Model(&models.FuelEntry{}).Where("status NOT IN ?", []string{"approved_by_manager", "rejected"}).Count(&n).Error; err != nil {
		return nil, err
	}
	counts["fuel_entries"] = n

	return counts, nil
}
