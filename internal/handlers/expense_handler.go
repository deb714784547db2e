package handlers

import (
	"net/http"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
)

type ExpenseRequest struct {
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Department  string  `json:"department" binding:"required"`
}

// --- POST /api/expenses ---
func CreateExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := identity(c)
	expense := models.Expense{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Department:  req.Department,
		RequesterID: userID,
		Status:      string(workflow.StatusPending),
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	audit(userID, "create", workflow.EntityExpense, expense.ID, req.Type)
	c.JSON(http.StatusCreated, expense)
}

// --- GET /api/expenses?status=&department= ---
func ListExpenses(c *gin.Context) {
	q := database.DB.Order("created_at desc")
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if d := c.Query("department"); d != "" {
		q = q.Where("department = ?", d)
	}

	var expenses []models.Expense
	if err := q.Find(&expenses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// --- POST /api/expenses/:id/approve ---
func ApproveExpense(c *gin.Context) {
	var expense models.Expense
	if err := database.DB.First(&expense, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	userID, role := identity(c)
	next, err := workflow.Advance(workflow.EntityExpense, workflow.Status(expense.Status), role)
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	expense.Status = string(next)
	stampApproval(&expense.ApprovalTrail, next, userID, now)

	if err := database.DB.Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	audit(userID, "approve", workflow.EntityExpense, expense.ID, string(next))
	c.JSON(http.StatusOK, expense)
}

// --- POST /api/expenses/:id/reject ---
func RejectExpense(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	var expense models.Expense
	if err := database.DB.First(&expense, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	userID, _ := identity(c)
	if err := workflow.Reject(workflow.EntityExpense, workflow.Status(expense.Status), req.Reason); err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	expense.Status = string(workflow.StatusRejected)
	stampRejection(&expense.ApprovalTrail, userID, req.Reason, now)

	if err := database.DB.Save(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	audit(userID, "reject", workflow.EntityExpense, expense.ID, req.Reason)
	c.JSON(http.StatusOK, expense)
}
