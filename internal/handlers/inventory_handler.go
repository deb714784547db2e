package handlers

import (
	"net/http"
	"strconv"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET /api/inventory?department= ---
func ListInventory(c *gin.Context) {
	q := database.DB.Order("name asc")
	if d := c.Query("department"); d != "" {
		q = q.Where("department = ?", d)
	}

	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- POST /api/inventory ---
func AddInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// --- PUT /api/inventory/:id ---
func UpdateInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	// Partial update: only touch the fields that were sent.
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := database.DB.Model(&item).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

type StockMovementRequest struct {
	ItemID    uint    `json:"item_id" binding:"required"`
	Kind      string  `json:"kind" binding:"required,oneof=sale delivery adjustment"`
	Quantity  float64 `json:"quantity" binding:"required"`
	Reference string  `json:"reference"`
}

// --- POST /api/inventory/movements ---
// Every stock change is a movement row plus a quantity update on the item.
func RecordStockMovement(c *gin.Context) {
	var req StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var item models.InventoryItem
	if err := database.DB.First(&item, req.ItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	userID, _ := identity(c)
	movement := models.StockMovement{
		ItemID:    req.ItemID,
		Kind:      req.Kind,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		UserID:    userID,
	}

	tx := database.DB.Begin()
	if err := tx.Create(&movement).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement"})
		return
	}
	item.StockQuantity += req.Quantity
	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	tx.Commit()

	c.JSON(http.StatusCreated, gin.H{"movement": movement, "stock_quantity": item.StockQuantity})
}

// --- GET /api/inventory/movements?item_id= ---
func ListStockMovements(c *gin.Context) {
	q := database.DB.Order("created_at desc")
	if id := c.Query("item_id"); id != "" {
		q = q.Where("item_id = ?", id)
	}

	var movements []models.StockMovement
	if err := q.Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}
