package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/reports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter gives each test its own in-memory database and a router whose
// auth layer reads identity from headers instead of a JWT.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.Atoi(c.GetHeader("X-User-ID"))
		c.Set("userID", uint(id))
		c.Set("role", c.GetHeader("X-Role"))
		c.Set("department", c.GetHeader("X-Department"))
	})

	r.POST("/sales", CreateSale)
	r.GET("/sales", ListSales)
	r.POST("/sales/:id/approve", ApproveSale)
	r.POST("/sales/:id/reject", RejectSale)
	r.POST("/expenses", CreateExpense)
	r.POST("/expenses/:id/approve", ApproveExpense)
	r.POST("/expenses/:id/reject", RejectExpense)
	r.POST("/purchase-orders", CreatePurchaseOrder)
	r.POST("/purchase-orders/:id/approve", ApprovePurchaseOrder)
	r.POST("/fuel/entries", CreateFuelEntry)
	r.POST("/fuel/entries/:id/approve", ApproveFuelEntry)
	r.POST("/fuel/readings", CreateFuelReading)
	r.POST("/fuel/invoices", CreateFuelInvoice)
	r.GET("/fuel/reconciliation", GetFuelReconciliation)
	r.PUT("/team/:id/deactivate", DeactivateTeamMember)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any, userID uint, role, department string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", strconv.Itoa(int(userID)))
	req.Header.Set("X-Role", role)
	req.Header.Set("X-Department", department)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaleApprovalChain(t *testing.T) {
	t.Setenv("VAT_RATE", "0.18")
	r := setupRouter(t)

	// Cashier rings up a sale; amounts are computed server-side.
	w := do(t, r, http.MethodPost, "/sales", gin.H{
		"customer_ref":   "Pump 3",
		"payment_method": "cash",
		"items": []gin.H{
			{"name": "Diesel", "quantity": 10.0, "unit_price": 4000.0},
			{"name": "Engine oil", "quantity": 1.0, "unit_price": 10000.0},
		},
	}, 10, "fuel_cashier", "fuel")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, "fuel", sale.Department)
	assert.Equal(t, "pending", sale.Status)
	assert.InDelta(t, 50000.0, sale.Subtotal, 1e-9)
	assert.InDelta(t, 9000.0, sale.Tax, 1e-9)
	assert.InDelta(t, sale.Subtotal+sale.Tax, sale.Total, 1e-9)
	assert.NotEmpty(t, sale.ReceiptNumber)

	path := fmt.Sprintf("/sales/%d/approve", sale.ID)

	// Stage 1: accountant.
	w = do(t, r, http.MethodPost, path, nil, 20, "accountant", "management")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, "accountant_approved", sale.Status)
	require.NotNil(t, sale.AccountantID)
	assert.Equal(t, uint(20), *sale.AccountantID)
	assert.Nil(t, sale.ManagerID)
	assert.Nil(t, sale.DirectorID)

	// Stage 2: manager. The accountant's stamp must survive untouched.
	w = do(t, r, http.MethodPost, path, nil, 30, "manager", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, "manager_approved", sale.Status)
	require.NotNil(t, sale.ManagerID)
	assert.Equal(t, uint(30), *sale.ManagerID)
	assert.Equal(t, uint(20), *sale.AccountantID)
	assert.Nil(t, sale.DirectorID)

	// Stage 3: director.
	w = do(t, r, http.MethodPost, path, nil, 40, "director", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, "director_approved", sale.Status)
	require.NotNil(t, sale.DirectorID)
	assert.Equal(t, uint(40), *sale.DirectorID)
	assert.Equal(t, uint(20), *sale.AccountantID)
	assert.Equal(t, uint(30), *sale.ManagerID)

	// Fully approved is terminal.
	w = do(t, r, http.MethodPost, path, nil, 40, "director", "management")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Aggregation places the sale in the fully-approved bucket and in no
	// pending queue.
	var all []models.Sale
	require.NoError(t, database.DB.Find(&all).Error)
	records := make([]reports.Record, len(all))
	for i, s := range all {
		records[i] = reports.Record{ID: s.ID, Status: s.Status, Department: s.Department, Amount: s.Total}
	}
	summary := reports.Aggregate(records)
	assert.Equal(t, 1, summary.ByStatus["director_approved"].Count)
	assert.Zero(t, summary.ByStatus["pending"].Count)
}

func TestWrongActorCannotApprove(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/sales", gin.H{
		"payment_method": "cash",
		"items":          []gin.H{{"name": "Bread", "quantity": 2.0, "unit_price": 3500.0}},
	}, 11, "supermarket_cashier", "supermarket")
	require.Equal(t, http.StatusCreated, w.Code)

	var sale models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))

	// The manager tries to jump the accountant's stage.
	w = do(t, r, http.MethodPost, fmt.Sprintf("/sales/%d/approve", sale.ID), nil, 30, "manager", "management")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Nothing changed.
	var stored models.Sale
	require.NoError(t, database.DB.First(&stored, sale.ID).Error)
	assert.Equal(t, "pending", stored.Status)
}

func TestExpenseRejectionIsTerminal(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/expenses", gin.H{
		"type":        "utilities",
		"description": "Generator fuel",
		"amount":      120000.0,
		"department":  "restaurant",
	}, 12, "restaurant_cashier", "restaurant")
	require.Equal(t, http.StatusCreated, w.Code)

	var expense models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))

	// A reason is mandatory.
	w = do(t, r, http.MethodPost, fmt.Sprintf("/expenses/%d/reject", expense.ID), gin.H{}, 20, "accountant", "management")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/expenses/%d/reject", expense.ID), gin.H{"reason": "duplicate claim"}, 20, "accountant", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &expense))
	assert.Equal(t, "rejected", expense.Status)
	assert.Equal(t, "duplicate claim", expense.RejectionReason)
	require.NotNil(t, expense.RejectedByID)
	assert.Equal(t, uint(20), *expense.RejectedByID)

	// No transition leaves the rejected state.
	w = do(t, r, http.MethodPost, fmt.Sprintf("/expenses/%d/approve", expense.ID), nil, 20, "accountant", "management")
	assert.Equal(t, http.StatusConflict, w.Code)
	w = do(t, r, http.MethodPost, fmt.Sprintf("/expenses/%d/reject", expense.ID), gin.H{"reason": "again"}, 30, "manager", "management")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestClosingReadingValidation(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/fuel/readings", gin.H{
		"kind":          "opening",
		"reading_date":  "2025-06-01",
		"pump_number":   "P1",
		"fuel_type":     "petrol",
		"meter_reading": 5000.0,
	}, 10, "fuel_cashier", "fuel")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Meters count down: a closing above the opening is blocked outright.
	w = do(t, r, http.MethodPost, "/fuel/readings", gin.H{
		"kind":          "closing",
		"reading_date":  "2025-06-01",
		"pump_number":   "P1",
		"fuel_type":     "petrol",
		"meter_reading": 5200.0,
	}, 10, "fuel_cashier", "fuel")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	database.DB.Model(&models.FuelReading{}).Where("kind = ?", "closing").Count(&count)
	assert.Zero(t, count, "invalid closing reading must not be persisted")

	w = do(t, r, http.MethodPost, "/fuel/readings", gin.H{
		"kind":          "closing",
		"reading_date":  "2025-06-01",
		"pump_number":   "P1",
		"fuel_type":     "petrol",
		"meter_reading": 4800.0,
	}, 10, "fuel_cashier", "fuel")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFuelEntryApprovalChain(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/fuel/entries", gin.H{
		"entry_date":  "2025-06-01",
		"fuel_type":   "diesel",
		"pump_number": "P2",
		"liters_sold": 340.0,
		"amount":      1700000.0,
	}, 10, "fuel_cashier", "fuel")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.FuelEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "submitted", entry.Status)

	path := fmt.Sprintf("/fuel/entries/%d/approve", entry.ID)

	// The manager cannot take the accountant's stage.
	w = do(t, r, http.MethodPost, path, nil, 30, "manager", "management")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, path, nil, 20, "accountant", "management")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "approved_by_accountant", entry.Status)
	require.NotNil(t, entry.AccountantID)
	assert.Equal(t, uint(20), *entry.AccountantID)

	w = do(t, r, http.MethodPost, path, nil, 30, "manager", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "approved_by_manager", entry.Status)
	require.NotNil(t, entry.ManagerID)
	assert.Equal(t, uint(30), *entry.ManagerID)
	assert.Equal(t, uint(20), *entry.AccountantID)

	// The fuel chain ends at the manager; there is no director stage.
	w = do(t, r, http.MethodPost, path, nil, 40, "director", "management")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPurchaseOrderApprovalChain(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/purchase-orders", gin.H{
		"description": "Cooking oil restock",
		"supplier":    "Mukwano",
		"amount":      800000.0,
		"department":  "restaurant",
	}, 12, "restaurant_cashier", "restaurant")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var po models.PurchaseOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &po))
	assert.Equal(t, "pending", po.Status)

	path := fmt.Sprintf("/purchase-orders/%d/approve", po.ID)

	// No accountant stage on purchase orders.
	w = do(t, r, http.MethodPost, path, nil, 20, "accountant", "management")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPost, path, nil, 30, "manager", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &po))
	assert.Equal(t, "manager_approved", po.Status)
	require.NotNil(t, po.ManagerID)
	assert.Equal(t, uint(30), *po.ManagerID)
	assert.Nil(t, po.AccountantID)

	w = do(t, r, http.MethodPost, path, nil, 40, "director", "management")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &po))
	assert.Equal(t, "director_approved", po.Status)
	require.NotNil(t, po.DirectorID)
	assert.Equal(t, uint(40), *po.DirectorID)
	assert.Equal(t, uint(30), *po.ManagerID)

	w = do(t, r, http.MethodPost, path, nil, 40, "director", "management")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReconciliationDoesNotOverwriteTank(t *testing.T) {
	r := setupRouter(t)

	require.NoError(t, database.DB.Create(&models.InitialStock{
		FuelType:     "petrol",
		Liters:       1000,
		DeliveryDate: time.Now().AddDate(0, 0, -1),
	}).Error)
	require.NoError(t, database.DB.Create(&models.FuelTank{
		FuelType:      "petrol",
		CurrentLevel:  1000,
		Capacity:      5000,
		PricePerLiter: 5400,
	}).Error)

	// A delivery tops the tank up to 1500 L.
	w := do(t, r, http.MethodPost, "/fuel/invoices", gin.H{
		"invoice_number": "INV-77",
		"supplier":       "Vivo",
		"fuel_type":      "petrol",
		"liters":         500.0,
		"amount":         2500000.0,
		"delivered_at":   time.Now().Format(time.RFC3339),
	}, 30, "manager", "management")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tank models.FuelTank
	require.NoError(t, database.DB.Where("fuel_type = ?", "petrol").First(&tank).Error)
	require.Equal(t, 1500.0, tank.CurrentLevel)

	// Rendering the reconciliation dashboard is a read; the recorded refill
	// must survive it.
	w = do(t, r, http.MethodGet, "/fuel/reconciliation", nil, 30, "manager", "management")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, database.DB.Where("fuel_type = ?", "petrol").First(&tank).Error)
	assert.Equal(t, 1500.0, tank.CurrentLevel)
}

func TestLowStockAlertNotDuplicated(t *testing.T) {
	r := setupRouter(t)

	require.NoError(t, database.DB.Create(&models.InitialStock{
		FuelType:     "diesel",
		Liters:       400,
		DeliveryDate: time.Now().AddDate(0, 0, -1),
	}).Error)
	require.NoError(t, database.DB.Create(&models.FuelTank{
		FuelType:          "diesel",
		CurrentLevel:      400,
		Capacity:          5000,
		PricePerLiter:     5000,
		LowStockThreshold: 500,
	}).Error)

	for i := 0; i < 3; i++ {
		w := do(t, r, http.MethodGet, "/fuel/reconciliation", nil, 30, "manager", "management")
		require.Equal(t, http.StatusOK, w.Code)
	}

	var alerts int64
	database.DB.Model(&models.LowStockAlert{}).Where("fuel_type = ?", "diesel").Count(&alerts)
	assert.Equal(t, int64(1), alerts, "repeated dashboard views must not pile up alerts")
}

func TestDirectorCannotBeDeactivated(t *testing.T) {
	r := setupRouter(t)

	director := models.Profile{FullName: "The Director", Email: "director@hp.example", Role: "director", Department: "management", Active: true}
	cashier := models.Profile{FullName: "Till One", Email: "till1@hp.example", Role: "supermarket_cashier", Department: "supermarket", Active: true}
	require.NoError(t, database.DB.Create(&director).Error)
	require.NoError(t, database.DB.Create(&cashier).Error)

	w := do(t, r, http.MethodPut, fmt.Sprintf("/team/%d/deactivate", director.ID), nil, director.ID, "director", "management")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/team/%d/deactivate", cashier.ID), nil, director.ID, "director", "management")
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Profile
	require.NoError(t, database.DB.First(&stored, cashier.ID).Error)
	assert.False(t, stored.Active)
	assert.NotNil(t, stored.DeactivatedAt)
}
