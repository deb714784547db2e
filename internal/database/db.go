package database

import (
	"log"
	"os"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// Connect with GORM (wait for the DB container to be ready)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("✅ Database Schema Synced!")
}

// Migrate keeps the schema in step with the models. Split out so tests can
// run it against their own gorm handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Expense{},
		&models.PurchaseOrder{},
		&models.FuelEntry{},
		&models.FuelReading{},
		&models.FuelTank{},
		&models.InitialStock{},
		&models.FuelInvoice{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.LowStockAlert{},
		&models.AuditLog{},
	)
}
