// @title           Condy HTTP Service API
// @version         1.0
// @description     Condominium access authorization service: access request workflow, condo search and registry management

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"condy-http-service/internal/app/routes"
	"condy-http-service/internal/domain/models"
	"condy-http-service/internal/infrastructure/config"
	"condy-http-service/internal/infrastructure/database"
	Logger "condy-http-service/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("failed to set up logger: %v\n", err)
		os.Exit(1)
	}

	// Environment may already be set through other means, so a missing
	// .env file is not fatal.
	if err := godotenv.Load(); err != nil {
		Logger.Warning("could not load .env file: %v", err)
	} else {
		Logger.Info(".env file loaded")
	}

	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("failed to create database connection pool: %v", err)
	}
	db := pool.GetDB()

	switch cfg.DBMigrationMode {
	case "drop":
		log.Println("warning: running in drop mode, all tables will be dropped and recreated")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("drop and recreate failed: %v", err)
		}
	case "alter":
		log.Println("running in alter mode, table structure will be altered to match models")
		if err := advancedMigrate(db); err != nil {
			log.Fatalf("advanced migration failed: %v", err)
		}
	default:
		log.Println("running in standard mode, only new columns and tables will be added")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
	}

	ensureAdminExists(db, cfg)

	r := routes.SetupRouter(db, cfg)

	port := cfg.ServerPort

	printSystemInfo(pool)

	Logger.Info("server listening on http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("failed to start server: %v", err)
		os.Exit(1)
	}
}

// autoMigrate adds new columns and tables without dropping anything.
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.Condo{},
		&models.Resident{},
		&models.Driver{},
		&models.AccessRequest{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// advancedMigrate drops columns the models no longer declare, then runs the
// standard migration.
func advancedMigrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("failed to disable foreign key checks: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	migrator := db.Migrator()
	stale := map[string][]string{
		"access_requests": {"visitor_document", "gate_number"},
		"condos":          {"region_code"},
	}
	for table, columns := range stale {
		if !migrator.HasTable(table) {
			continue
		}
		for _, column := range columns {
			if migrator.HasColumn(table, column) {
				log.Printf("dropping stale column %s.%s", table, column)
				if err := migrator.DropColumn(table, column); err != nil {
					log.Printf("failed to drop column %s.%s: %v", table, column, err)
				}
			}
		}
	}

	return autoMigrate(db)
}

// dropAndRecreateTables drops every table and recreates the schema.
func dropAndRecreateTables(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("failed to disable foreign key checks: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1")

	tables := []string{
		"access_requests", "residents", "drivers", "condos", "admins",
	}

	for _, table := range tables {
		log.Printf("dropping table: %s", table)
		_, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
		if err != nil {
			log.Printf("failed to drop table: %v", err)
		}
	}

	return autoMigrate(db)
}

// ensureAdminExists seeds a default admin account when the table is empty.
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)

	if count == 0 {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash default admin password: %v", err)
		}

		admin := models.Admin{
			Username: "admin",
			Password: string(hashedPassword),
			Role:     "system_admin",
			Status:   "active",
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create default admin: %v", err)
		}

		log.Println("default admin account created")
	}
}

// printSystemInfo logs pool and runtime statistics at startup.
func printSystemInfo(pool *database.ConnectionPool) {
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("database connection pool stats: %+v", stats)
	}

	log.Printf("CPU cores: %d", runtime.NumCPU())
	log.Printf("goroutines: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("memory usage: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
