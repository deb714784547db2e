package handlers

import (
	"net/http"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderRequest struct {
	Description string  `json:"description" binding:"required"`
	Supplier    string  `json:"supplier"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Department  string  `json:"department" binding:"required"`
}

// --- POST /api/purchase-orders ---
// Purchase orders start pending like everything else but skip the
// accountant: the manager takes the first stage, then the director.
func CreatePurchaseOrder(c *gin.Context) {
	var req PurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := identity(c)
	po := models.PurchaseOrder{
		Description: req.Description,
		Supplier:    req.Supplier,
		Amount:      req.Amount,
		Department:  req.Department,
		RequesterID: userID,
		Status:      string(workflow.StatusPending),
	}

	if err := database.DB.Create(&po).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		return
	}

	audit(userID, "create", workflow.EntityPurchaseOrder, po.ID, req.Description)
	c.JSON(http.StatusCreated, po)
}

// --- GET /api/purchase-orders?status=&department= ---
func ListPurchaseOrders(c *gin.Context) {
	q := database.DB.Order("created_at desc")
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if d := c.Query("department"); d != "" {
		q = q.Where("department = ?", d)
	}

	var orders []models.PurchaseOrder
	if err := q.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// --- POST /api/purchase-orders/:id/approve ---
func ApprovePurchaseOrder(c *gin.Context) {
	var po models.PurchaseOrder
	if err := database.DB.First(&po, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}

	userID, role := identity(c)
	next, err := workflow.Advance(workflow.EntityPurchaseOrder, workflow.Status(po.Status), role)
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	po.Status = string(next)
	stampApproval(&po.ApprovalTrail, next, userID, now)

	if err := database.DB.Save(&po).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase order"})
		return
	}

	audit(userID, "approve", workflow.EntityPurchaseOrder, po.ID, string(next))
	c.JSON(http.StatusOK, po)
}

// --- POST /api/purchase-orders/:id/reject ---
func RejectPurchaseOrder(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	var po models.PurchaseOrder
	if err := database.DB.First(&po, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}

	userID, _ := identity(c)
	if err := workflow.Reject(workflow.EntityPurchaseOrder, workflow.Status(po.Status), req.Reason); err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	po.Status = string(workflow.StatusRejected)
	stampRejection(&po.ApprovalTrail, userID, req.Reason, now)

	if err := database.DB.Save(&po).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase order"})
		return
	}

	audit(userID, "reject", workflow.EntityPurchaseOrder, po.ID, req.Reason)
	c.JSON(http.StatusOK, po)
}
