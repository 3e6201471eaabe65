package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/config"
	"github.com/dapurkita/restaurant-manager/database"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/router"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("failed to connect database: %v", err)
	}
	utils.InitDB(db)

	if err := autoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("failed to seed database: %v", err)
	}

	services.DefaultConflictWindow = time.Duration(cfg.ConflictWindowMinutes) * time.Minute
	services.DefaultCancelCutoff = time.Duration(cfg.CancelCutoffHours) * time.Hour

	store := services.NewSessionStore(cfg)
	gateway := services.NewPaymentGateway(db)

	monitor := services.NewReservationMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	gateway.StartExpirySweeper()
	go utils.CleanupBlacklist(1 * time.Hour)

	r := router.SetupRouter(db, store, gateway)

	utils.InfoLogger.Printf("Server listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatalf("server stopped: %v", err)
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CustomerProfile{},
		&models.Category{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Reservation{},
		&models.Review{},
		&models.Table{},
		&models.Setting{},
		&models.Payment{},
	)
}
