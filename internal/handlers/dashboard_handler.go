package handlers

import (
	"net/http"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/reports"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
)

// --- GET /api/dashboard ---
// Every role sees the same aggregation; what differs is the caller's action
// queue, which holds exactly the records waiting on their stage. The full
// entity sets are re-fetched and re-aggregated per request - no caching.
func GetDashboard(c *gin.Context) {
	_, role := identity(c)

	var sales []models.Sale
	if err := database.DB.Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	var expenses []models.Expense
	if err := database.DB.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	var orders []models.PurchaseOrder
	if err := database.DB.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders"})
		return
	}
	var entries []models.FuelEntry
	if err := database.DB.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fuel entries"})
		return
	}

	saleRecords := make([]reports.Record, len(sales))
	for i, s := range sales {
		saleRecords[i] = reports.Record{ID: s.ID, Status: s.Status, Department: s.Department, Amount: s.Total}
	}
	expenseRecords := make([]reports.Record, len(expenses))
	for i, e := range expenses {
		expenseRecords[i] = reports.Record{ID: e.ID, Status: e.Status, Department: e.Department, Amount: e.Amount}
	}
	orderRecords := make([]reports.Record, len(orders))
	for i, o := range orders {
		orderRecords[i] = reports.Record{ID: o.ID, Status: o.Status, Department: o.Department, Amount: o.Amount}
	}
	entryRecords := make([]reports.Record, len(entries))
	for i, e := range entries {
		entryRecords[i] = reports.Record{ID: e.ID, Status: e.Status, Department: "fuel", Amount: e.Amount}
	}

	c.JSON(http.StatusOK, gin.H{
		"sales": gin.H{
			"summary": reports.Aggregate(saleRecords),
			"pending": reports.PendingTotal(saleRecords, workflow.EntitySale),
			"queue":   reports.Queue(saleRecords, workflow.EntitySale, role),
		},
		"expenses": gin.H{
			"summary": reports.Aggregate(expenseRecords),
			"pending": reports.PendingTotal(expenseRecords, workflow.EntityExpense),
			"queue":   reports.Queue(expenseRecords, workflow.EntityExpense, role),
		},
		"purchase_orders": gin.H{
			"summary": reports.Aggregate(orderRecords),
			"pending": reports.PendingTotal(orderRecords, workflow.EntityPurchaseOrder),
			"queue":   reports.Queue(orderRecords, workflow.EntityPurchaseOrder, role),
		},
		"fuel_entries": gin.H{
			"summary": reports.Aggregate(entryRecords),
			"pending": reports.PendingTotal(entryRecords, workflow.EntityFuelEntry),
			"queue":   reports.Queue(entryRecords, workflow.EntityFuelEntry, role),
		},
	})
}
