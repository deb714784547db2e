package models

import (
	"time"
)

// Profile - Every staff member of the business (cashiers up to the director)
type Profile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	FullName      string     `gorm:"size:100" json:"full_name"`
	Email         string     `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash  string     `json:"-"` // Never return this in JSON
	Role          string     `gorm:"size:30;index" json:"role"` // director, manager, accountant, fuel_cashier, supermarket_cashier, restaurant_cashier
	Department    string     `gorm:"size:30" json:"department"` // fuel, supermarket, restaurant, management
	Active        bool       `gorm:"default:true" json:"active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ApprovalTrail - The per-stage approver ids and timestamps shared by every
// entity that travels the approval chain. A stage column is written exactly
// once, by the transition that produces the matching status.
type ApprovalTrail struct {
	AccountantID    *uint      `json:"approved_by_accountant,omitempty"`
	AccountantAt    *time.Time `json:"accountant_approved_at,omitempty"`
	ManagerID       *uint      `json:"approved_by_manager,omitempty"`
	ManagerAt       *time.Time `json:"manager_approved_at,omitempty"`
	DirectorID      *uint      `json:"approved_by_director,omitempty"`
	DirectorAt      *time.Time `json:"director_approved_at,omitempty"`
	RejectedByID    *uint      `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"size:255" json:"rejection_reason,omitempty"`
}

// Sale - The Transaction Header. Append-only: rows are never edited or
// deleted after creation, only the approval columns change.
type Sale struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ReceiptNumber string     `gorm:"uniqueIndex;size:40" json:"receipt_number"`
	Department    string     `gorm:"size:30;index" json:"department"` // fuel, supermarket, restaurant
	CashierID     uint       `json:"cashier_id"`
	CustomerRef   string     `gorm:"size:100" json:"customer_ref"` // customer name, table number or pump number
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `json:"total"`
	PaymentMethod string     `gorm:"size:30" json:"payment_method"`
	Status        string     `gorm:"size:30;index;default:pending" json:"status"`
	Items         []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	ApprovalTrail `gorm:"embedded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SaleItem - One line on the receipt, price snapshotted at sale time
type SaleItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	SaleID    uint    `gorm:"index" json:"sale_id"`
	Name      string  `gorm:"size:100" json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Expense - Money going out, travels the full three-stage chain
type Expense struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Type          string  `gorm:"size:50" json:"type"`
	Description   string  `gorm:"size:255" json:"description"`
	Amount        float64 `json:"amount"`
	Department    string  `gorm:"size:30;index" json:"department"`
	RequesterID   uint    `json:"requester_id"`
	Status        string  `gorm:"size:30;index;default:pending" json:"status"`
	ApprovalTrail `gorm:"embedded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PurchaseOrder - A request to buy stock; skips the accountant stage
type PurchaseOrder struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Description   string  `gorm:"size:255" json:"description"`
	Supplier      string  `gorm:"size:100" json:"supplier"`
	Amount        float64 `json:"amount"`
	Department    string  `gorm:"size:30;index" json:"department"`
	RequesterID   uint    `json:"requester_id"`
	Status        string  `gorm:"size:30;index;default:pending" json:"status"`
	ApprovalTrail `gorm:"embedded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FuelEntry - A shift summary submitted by the fuel cashier; two-stage chain
// (accountant then manager) with its own status vocabulary
type FuelEntry struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	EntryDate     string  `gorm:"size:10;index" json:"entry_date"` // YYYY-MM-DD
	FuelType      string  `gorm:"size:30;index" json:"fuel_type"`
	PumpNumber    string  `gorm:"size:20" json:"pump_number"`
	LitersSold    float64 `json:"liters_sold"`
	Amount        float64 `json:"amount"`
	AttendantID   uint    `json:"attendant_id"`
	Status        string  `gorm:"size:30;index;default:submitted" json:"status"`
	ApprovalTrail `gorm:"embedded"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FuelReading - An opening or closing pump reading. The totalizer on these
// pumps counts DOWN, so for one (pump, fuel type, date) the closing meter
// must never exceed the opening meter.
type FuelReading struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Kind            string    `gorm:"size:10;index" json:"kind"` // opening, closing
	ReadingDate     string    `gorm:"size:10;index" json:"reading_date"`
	ReadingTime     string    `gorm:"size:8" json:"reading_time"`
	PumpNumber      string    `gorm:"size:20;index" json:"pump_number"`
	FuelType        string    `gorm:"size:30;index" json:"fuel_type"`
	MeterReading    float64   `json:"meter_reading"`
	DipstickReading float64   `json:"dipstick_reading"`
	AttendantID     uint      `json:"attendant_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// FuelTank - Physical tank state plus the per-fuel-type pricing and alert
// threshold. A level outside [0, capacity] is warned about, not blocked.
type FuelTank struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	FuelType          string     `gorm:"uniqueIndex;size:30" json:"fuel_type"`
	CurrentLevel      float64    `json:"current_level"`
	Capacity          float64    `json:"capacity"`
	PricePerLiter     float64    `json:"price_per_liter"`
	LowStockThreshold float64    `json:"low_stock_threshold"`
	LastRefillAmount  float64    `json:"last_refill_amount"`
	LastRefillDate    *time.Time `json:"last_refill_date,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (FuelTank) TableName() string { return "fuel_tank_inventory" }

// InitialStock - One active delivery record per fuel type, overwritten on
// each update (not versioned)
type InitialStock struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FuelType     string    `gorm:"uniqueIndex;size:30" json:"fuel_type"`
	Liters       float64   `json:"liters"`
	DeliveryDate time.Time `json:"delivery_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FuelInvoice - A supplier delivery that tops up a tank
type FuelInvoice struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	InvoiceNumber string    `gorm:"size:50" json:"invoice_number"`
	Supplier      string    `gorm:"size:100" json:"supplier"`
	FuelType      string    `gorm:"size:30;index" json:"fuel_type"`
	Liters        float64   `json:"liters"`
	Amount        float64   `json:"amount"`
	DeliveredAt   time.Time `json:"delivered_at"`
	RecordedByID  uint      `json:"recorded_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// InventoryItem - Supermarket / restaurant stock
type InventoryItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:100" json:"name"`
	Category      string  `gorm:"size:50" json:"category"`
	Department    string  `gorm:"size:30;index" json:"department"`
	Price         float64 `json:"price"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity float64 `json:"stock_quantity"`
	ReorderLevel  float64 `json:"reorder_level"`
}

// StockMovement - Every change to an inventory item's quantity
type StockMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"index" json:"item_id"`
	Kind      string    `gorm:"size:20" json:"kind"` // sale, delivery, adjustment
	Quantity  float64   `json:"quantity"`            // signed; negative removes stock
	Reference string    `gorm:"size:100" json:"reference"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LowStockAlert - Raised when a tank level falls to its threshold
type LowStockAlert struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FuelType     string    `gorm:"size:30;index" json:"fuel_type"`
	Level        float64   `json:"level"`
	Threshold    float64   `json:"threshold"`
	Acknowledged bool      `gorm:"default:false" json:"acknowledged"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLog - One row per workflow transition or privileged action
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	Action     string    `gorm:"size:50" json:"action"`
	EntityType string    `gorm:"size:30" json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Details    string    `gorm:"size:255" json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}
