package main

import (
	"log"
	"os"
	"time"

	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/database"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/handlers"
	"github.com/DrakeNamanya/hajerapetrol-sub000/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	allowOrigin := os.Getenv("ALLOW_ORIGIN")
	if allowOrigin == "" {
		allowOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{allowOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.GET("/api/system/status", handlers.GetSystemStatus)
	r.POST("/login", handlers.Login)

	// Only opens if we explicitly allow it in .env - normal onboarding goes
	// through the director's team screen.
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PROTECTED ROUTES ---
	// Role gates here only shape who can reach a route; the workflow layer
	// re-validates the acting role on every approval transition.
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Sales: any cashier rings up; the chain approves.
		api.POST("/sales", middleware.RequireRole("fuel_cashier", "supermarket_cashier", "restaurant_cashier", "manager", "director"), handlers.CreateSale)
		api.GET("/sales", handlers.ListSales)
		api.GET("/sales/:id", handlers.GetSale)
		api.POST("/sales/:id/approve", handlers.ApproveSale)
		api.POST("/sales/:id/reject", middleware.RequireRole("accountant", "manager", "director"), handlers.RejectSale)

		// Expenses
		api.POST("/expenses", handlers.CreateExpense)
		api.GET("/expenses", handlers.ListExpenses)
		api.POST("/expenses/:id/approve", handlers.ApproveExpense)
		api.POST("/expenses/:id/reject", middleware.RequireRole("accountant", "manager", "director"), handlers.RejectExpense)

		// Purchase orders (no accountant stage)
		api.POST("/purchase-orders", handlers.CreatePurchaseOrder)
		api.GET("/purchase-orders", handlers.ListPurchaseOrders)
		api.POST("/purchase-orders/:id/approve", handlers.ApprovePurchaseOrder)
		api.POST("/purchase-orders/:id/reject", middleware.RequireRole("manager", "director"), handlers.RejectPurchaseOrder)

		// Fuel desk
		fuelGroup := api.Group("/fuel")
		{
			fuelGroup.POST("/entries", middleware.RequireRole("fuel_cashier", "manager", "director"), handlers.CreateFuelEntry)
			fuelGroup.GET("/entries", handlers.ListFuelEntries)
			fuelGroup.POST("/entries/:id/approve", handlers.ApproveFuelEntry)
			fuelGroup.POST("/entries/:id/reject", middleware.RequireRole("accountant", "manager", "director"), handlers.RejectFuelEntry)

			fuelGroup.POST("/readings", middleware.RequireRole("fuel_cashier", "manager", "director"), handlers.CreateFuelReading)
			fuelGroup.GET("/readings", handlers.ListFuelReadings)

			fuelGroup.PUT("/initial-stock", middleware.RequireRole("manager", "director"), handlers.UpsertInitialStock)
			fuelGroup.GET("/tanks", handlers.ListFuelTanks)
			fuelGroup.PUT("/tanks/:id", middleware.RequireRole("manager", "director"), handlers.UpdateFuelTank)
			fuelGroup.POST("/invoices", middleware.RequireRole("manager", "director"), handlers.CreateFuelInvoice)
			fuelGroup.GET("/invoices", handlers.ListFuelInvoices)
			fuelGroup.GET("/reconciliation", handlers.GetFuelReconciliation)
			fuelGroup.GET("/alerts", handlers.ListLowStockAlerts)
		}

		// Inventory (supermarket / restaurant)
		api.GET("/inventory", handlers.ListInventory)
		api.POST("/inventory", middleware.RequireRole("manager", "director"), handlers.AddInventoryItem)
		api.PUT("/inventory/:id", middleware.RequireRole("manager", "director"), handlers.UpdateInventoryItem)
		api.POST("/inventory/movements", handlers.RecordStockMovement)
		api.GET("/inventory/movements", handlers.ListStockMovements)

		// Dashboards
		api.GET("/dashboard", handlers.GetDashboard)

		// DIRECTOR ONLY
		director := api.Group("/")
		director.Use(middleware.RequireRole("director"))
		{
			director.POST("/insights", handlers.AskInsights)
			director.POST("/team", handlers.CreateTeamMember)
			director.PUT("/team/:id/deactivate", handlers.DeactivateTeamMember)
			director.PUT("/team/:id/role", handlers.ChangeTeamMemberRole)
		}
		api.GET("/team", middleware.RequireRole("manager", "director"), handlers.ListTeam)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
