package handlers

import (
	"net/http"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/utils"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
)

// SaleRequest defines what the till sends us. Amounts are computed
// server-side; the client only supplies quantities and unit prices.
type SaleRequest struct {
	CustomerRef   string `json:"customer_ref"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	Items         []struct {
		Name      string  `json:"name" binding:"required"`
		Quantity  float64 `json:"quantity" binding:"required"`
		UnitPrice float64 `json:"unit_price" binding:"required"`
	} `json:"items" binding:"required,min=1"`
}

// departmentForRole maps a cashier role onto the department its sales land in.
var departmentForRole = map[string]string{
	"fuel_cashier":        "fuel",
	"supermarket_cashier": "supermarket",
	"restaurant_cashier":  "restaurant",
}

// --- POST /api/sales ---
func CreateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, role := identity(c)
	department, ok := departmentForRole[string(role)]
	if !ok {
		// Managers and above ring up under their own department.
		department = c.MustGet("department").(string)
	}

	now := time.Now()
	var subtotal float64
	items := make([]models.SaleItem, 0, len(req.Items))
	for _, it := range req.Items {
		lineTotal := it.Quantity * it.UnitPrice
		subtotal += lineTotal
		items = append(items, models.SaleItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: lineTotal,
		})
	}
	tax := subtotal * vatRate()

	initial, err := workflow.InitialStatus(workflow.EntitySale)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale"})
		return
	}

	sale := models.Sale{
		ReceiptNumber: utils.NewReceiptNumber(department, now),
		Department:    department,
		CashierID:     userID,
		CustomerRef:   req.CustomerRef,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: req.PaymentMethod,
		Status:        string(initial),
		Items:         items, // GORM inserts these with the header
	}

	if err := database.DB.Create(&sale).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale record"})
		return
	}

	audit(userID, "create", workflow.EntitySale, sale.ID, sale.ReceiptNumber)
	c.JSON(http.StatusCreated, sale)
}

// --- GET /api/sales?status=&department= ---
func ListSales(c *gin.Context) {
	q := database.DB.Preload("Items").Order("created_at desc")
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if d := c.Query("department"); d != "" {
		q = q.Where("department = ?", d)
	}

	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET /api/sales/:id ---
func GetSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.Preload("Items").First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, sale)
}

// --- POST /api/sales/:id/approve ---
// One click, one synchronous update. The workflow layer decides whether this
// actor may take the next step; there is no branching on amount or department.
func ApproveSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	userID, role := identity(c)
	next, err := workflow.Advance(workflow.EntitySale, workflow.Status(sale.Status), role)
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	sale.Status = string(next)
	stampApproval(&sale.ApprovalTrail, next, userID, now)

	if err := database.DB.Save(&sale).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
		return
	}

	audit(userID, "approve", workflow.EntitySale, sale.ID, string(next))
	c.JSON(http.StatusOK, sale)
}

// --- POST /api/sales/:id/reject ---
func RejectSale(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	userID, _ := identity(c)
	if err := workflow.Reject(workflow.EntitySale, workflow.Status(sale.Status), req.Reason); err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	sale.Status = string(workflow.StatusRejected)
	stampRejection(&sale.ApprovalTrail, userID, req.Reason, now)

	if err := database.DB.Save(&sale).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sale"})
		return
	}

	audit(userID, "reject", workflow.EntitySale, sale.ID, req.Reason)
	c.JSON(http.StatusOK, sale)
}
