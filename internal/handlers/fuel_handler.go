package handlers

import (
	"net/http"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/fuel"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/workflow"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// --- Fuel entries (shift summaries, two-stage approval) ---

type FuelEntryRequest struct {
	EntryDate  string  `json:"entry_date" binding:"required"`
	FuelType   string  `json:"fuel_type" binding:"required"`
	PumpNumber string  `json:"pump_number" binding:"required"`
	LitersSold float64 `json:"liters_sold" binding:"required,gt=0"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// --- POST /api/fuel/entries ---
func CreateFuelEntry(c *gin.Context) {
	var req FuelEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := identity(c)
	entry := models.FuelEntry{
		EntryDate:   req.EntryDate,
		FuelType:    req.FuelType,
		PumpNumber:  req.PumpNumber,
		LitersSold:  req.LitersSold,
		Amount:      req.Amount,
		AttendantID: userID,
		Status:      string(workflow.StatusSubmitted),
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create fuel entry"})
		return
	}

	audit(userID, "create", workflow.EntityFuelEntry, entry.ID, req.FuelType)
	c.JSON(http.StatusCreated, entry)
}

// --- GET /api/fuel/entries?status=&fuel_type= ---
func ListFuelEntries(c *gin.Context) {
	q := database.DB.Order("created_at desc")
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if f := c.Query("fuel_type"); f != "" {
		q = q.Where("fuel_type = ?", f)
	}

	var entries []models.FuelEntry
	if err := q.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch fuel entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- POST /api/fuel/entries/:id/approve ---
func ApproveFuelEntry(c *gin.Context) {
	var entry models.FuelEntry
	if err := database.DB.First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fuel entry not found"})
		return
	}

	userID, role := identity(c)
	next, err := workflow.Advance(workflow.EntityFuelEntry, workflow.Status(entry.Status), role)
	if err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	entry.Status = string(next)
	stampApproval(&entry.ApprovalTrail, next, userID, now)

	if err := database.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fuel entry"})
		return
	}

	audit(userID, "approve", workflow.EntityFuelEntry, entry.ID, string(next))
	c.JSON(http.StatusOK, entry)
}

// --- POST /api/fuel/entries/:id/reject ---
func RejectFuelEntry(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	var entry models.FuelEntry
	if err := database.DB.First(&entry, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Fuel entry not found"})
		return
	}

	userID, _ := identity(c)
	if err := workflow.Reject(workflow.EntityFuelEntry, workflow.Status(entry.Status), req.Reason); err != nil {
		c.JSON(workflowErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	entry.Status = string(workflow.StatusRejected)
	stampRejection(&entry.ApprovalTrail, userID, req.Reason, now)

	if err := database.DB.Save(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update fuel entry"})
		return
	}

	audit(userID, "reject", workflow.EntityFuelEntry, entry.ID, req.Reason)
	c.JSON(http.StatusOK, entry)
}

// --- Pump readings ---

type FuelReadingRequest struct {
	Kind            string  `json:"kind" binding:"required,oneof=opening closing"`
	ReadingDate     string  `json:"reading_date" binding:"required"`
	ReadingTime     string  `json:"reading_time"`
	PumpNumber      string  `json:"pump_number" binding:"required"`
	FuelType        string  `json:"fuel_type" binding:"required"`
	MeterReading    float64 `json:"meter_reading" binding:"required"`
	DipstickReading float64 `json:"dipstick_reading"`
}

// --- POST /api/fuel/readings ---
// A closing reading is validated against its opening before anything is
// persisted: the totalizers count down, so closing > opening is a hard error.
func CreateFuelReading(c *gin.Context) {
	var req FuelReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Kind == "closing" {
		var opening models.FuelReading
		err := database.DB.
			Where("kind = ? AND pump_number = ? AND fuel_type = ? AND reading_date = ?",
				"opening", req.PumpNumber, req.FuelType, req.ReadingDate).
			First(&opening).Error
		if err == nil {
			if verr := fuel.ValidateClosing(
				fuel.Reading{PumpNumber: opening.PumpNumber, FuelType: opening.FuelType, Date: opening.ReadingDate, MeterReading: opening.MeterReading},
				fuel.Reading{PumpNumber: req.PumpNumber, FuelType: req.FuelType, Date: req.ReadingDate, MeterReading: req.MeterReading},
			); verr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
				return
			}
		}
	}

	userID, _ := identity(c)
	reading := models.FuelReading{
		Kind:            req.Kind,
		ReadingDate:     req.ReadingDate,
		ReadingTime:     req.ReadingTime,
		PumpNumber:      req.PumpNumber,
		FuelType:        req.FuelType,
		MeterReading:    req.MeterReading,
		DipstickReading: req.DipstickReading,
		AttendantID:     userID,
	}

	if err := database.DB.Create(&reading).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reading"})
		return
	}
	c.JSON(http.StatusCreated, reading)
}

// --- GET /api/fuel/readings?date=&fuel_type= ---
func ListFuelReadings(c *gin.Context) {
	q := database.DB.Order("reading_date desc, pump_number asc")
	if d := c.Query("date"); d != "" {
		q = q.Where("reading_date = ?", d)
	}
	if f := c.Query("fuel_type"); f != "" {
		q = q.Where("fuel_type = ?", f)
	}

	var readings []models.FuelReading
	if err := q.Find(&readings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}
	c.JSON(http.StatusOK, readings)
}

// --- Initial stock ---

type InitialStockRequest struct {
	FuelType     string    `json:"fuel_type" binding:"required"`
	Liters       float64   `json:"liters" binding:"required,gt=0"`
	DeliveryDate time.Time `json:"delivery_date" binding:"required"`
}

// --- PUT /api/fuel/initial-stock ---
// One active record per fuel type, overwritten on each update.
func UpsertInitialStock(c *gin.Context) {
	var req InitialStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	stock := models.InitialStock{
		FuelType:     req.FuelType,
		Liters:       req.Liters,
		DeliveryDate: req.DeliveryDate,
	}

	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fuel_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"liters", "delivery_date", "updated_at"}),
	}).Create(&stock).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save initial stock"})
		return
	}

	userID, _ := identity(c)
	audit(userID, "upsert_initial_stock", "fuel_stock", stock.ID, req.FuelType)
	c.JSON(http.StatusOK, stock)
}

// --- Tanks ---

// --- GET /api/fuel/tanks ---
func ListFuelTanks(c *gin.Context) {
	var tanks []models.FuelTank
	if err := database.DB.Find(&tanks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tanks"})
		return
	}
	c.JSON(http.StatusOK, tanks)
}

type TankUpdateRequest struct {
	Capacity          *float64 `json:"capacity"`
	PricePerLiter     *float64 `json:"price_per_liter"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
	RefillLiters      *float64 `json:"refill_liters"`
}

// --- PUT /api/fuel/tanks/:id ---
// A refill raises the level; a level outside [0, capacity] is allowed but
// flagged in the response so the dashboard can warn the operator.
func UpdateFuelTank(c *gin.Context) {
	var tank models.FuelTank
	if err := database.DB.First(&tank, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tank not found"})
		return
	}

	var req TankUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Capacity != nil {
		tank.Capacity = *req.Capacity
	}
	if req.PricePerLiter != nil {
		tank.PricePerLiter = *req.PricePerLiter
	}
	if req.LowStockThreshold != nil {
		tank.LowStockThreshold = *req.LowStockThreshold
	}
	if req.RefillLiters != nil {
		now := time.Now()
		tank.CurrentLevel += *req.RefillLiters
		tank.LastRefillAmount = *req.RefillLiters
		tank.LastRefillDate = &now
	}

	if err := database.DB.Save(&tank).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tank"})
		return
	}

	resp := gin.H{"tank": tank}
	if tank.CurrentLevel < 0 || tank.CurrentLevel > tank.Capacity {
		resp["warning"] = "Tank level is outside the 0..capacity range. Please verify the readings."
	}
	c.JSON(http.StatusOK, resp)
}

// --- Deliveries ---

type FuelInvoiceRequest struct {
	InvoiceNumber string    `json:"invoice_number" binding:"required"`
	Supplier      string    `json:"supplier" binding:"required"`
	FuelType      string    `json:"fuel_type" binding:"required"`
	Liters        float64   `json:"liters" binding:"required,gt=0"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	DeliveredAt   time.Time `json:"delivered_at" binding:"required"`
}

// --- POST /api/fuel/invoices ---
// Recording a delivery tops up the matching tank in the same request.
func CreateFuelInvoice(c *gin.Context) {
	var req FuelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := identity(c)
	invoice := models.FuelInvoice{
		InvoiceNumber: req.InvoiceNumber,
		Supplier:      req.Supplier,
		FuelType:      req.FuelType,
		Liters:        req.Liters,
		Amount:        req.Amount,
		DeliveredAt:   req.DeliveredAt,
		RecordedByID:  userID,
	}

	if err := database.DB.Create(&invoice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record delivery"})
		return
	}

	var tank models.FuelTank
	if err := database.DB.Where("fuel_type = ?", req.FuelType).First(&tank).Error; err == nil {
		now := time.Now()
		tank.CurrentLevel += req.Liters
		tank.LastRefillAmount = req.Liters
		tank.LastRefillDate = &now
		database.DB.Save(&tank)
	}

	audit(userID, "fuel_delivery", "fuel_invoice", invoice.ID, req.InvoiceNumber)
	c.JSON(http.StatusCreated, invoice)
}

// --- GET /api/fuel/invoices ---
func ListFuelInvoices(c *gin.Context) {
	var invoices []models.FuelInvoice
	if err := database.DB.Order("delivered_at desc").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// --- Reconciliation ---

// --- GET /api/fuel/reconciliation ---
// The whole computation is re-derived from the stored readings on every
// request. A read never writes tank state: refills recorded via invoices or
// tank updates must survive any number of dashboard renders. The only side
// effect is raising a low-stock alert, and only when none is already open.
func GetFuelReconciliation(c *gin.Context) {
	var stocks []models.InitialStock
	if err := database.DB.Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch initial stock"})
		return
	}

	var rows []models.FuelReading
	if err := database.DB.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch readings"})
		return
	}

	var openings, closings []fuel.Reading
	for _, r := range rows {
		fr := fuel.Reading{
			PumpNumber:   r.PumpNumber,
			FuelType:     r.FuelType,
			Date:         r.ReadingDate,
			MeterReading: r.MeterReading,
			Dipstick:     r.DipstickReading,
		}
		if r.Kind == "opening" {
			openings = append(openings, fr)
		} else {
			closings = append(closings, fr)
		}
	}
	pairs := fuel.MatchPairs(openings, closings)

	now := time.Now()
	rate := evaporationRate()
	reportsOut := make([]fuel.Report, 0, len(stocks))
	var warnings []string

	for _, s := range stocks {
		var tank models.FuelTank
		price, threshold := 0.0, 0.0
		haveTank := database.DB.Where("fuel_type = ?", s.FuelType).First(&tank).Error == nil
		if haveTank {
			price = tank.PricePerLiter
			threshold = tank.LowStockThreshold
		}

		report := fuel.Reconcile(fuel.Stock{
			FuelType:     s.FuelType,
			Liters:       s.Liters,
			DeliveryDate: s.DeliveryDate,
		}, pairs, price, rate, threshold, now)
		reportsOut = append(reportsOut, report)

		if haveTank && (report.CurrentLevel < 0 || report.CurrentLevel > tank.Capacity) {
			warnings = append(warnings, s.FuelType+": computed level outside the 0..capacity range")
		}
		if report.LowStock {
			// One open alert per fuel type; rendering the dashboard twice
			// must not raise a second one.
			var open int64
			database.DB.Model(&models.LowStockAlert{}).
				Where("fuel_type = ? AND acknowledged = ?", s.FuelType, false).
				Count(&open)
			if open == 0 {
				database.DB.Create(&models.LowStockAlert{
					FuelType:  s.FuelType,
					Level:     report.CurrentLevel,
					Threshold: threshold,
				})
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":          reportsOut,
		"pairs":            pairs,
		"evaporation_rate": rate,
		"warnings":         warnings,
	})
}

// --- GET /api/fuel/alerts ---
func ListLowStockAlerts(c *gin.Context) {
	var alerts []models.LowStockAlert
	if err := database.DB.Where("acknowledged = ?", false).Order("created_at desc").Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, alerts)
}
