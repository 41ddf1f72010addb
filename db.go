package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/A3ON-Tecnologia/dashboard-bi/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		// Empresas first so the workflows FK can be applied safely.
		if err := db.AutoMigrate(&models.Empresa{}); err != nil {
			log.Printf("migration warning (empresas): %v", err)
		}
		if err := db.AutoMigrate(&models.Workflow{}); err != nil {
			log.Printf("migration warning (workflows): %v", err)
		}
		if err := db.AutoMigrate(&models.ArquivoImportado{}); err != nil {
			log.Printf("migration warning (arquivos_importados): %v", err)
		}
		if err := db.AutoMigrate(&models.AnaliseUpload{}); err != nil {
			log.Printf("migration warning (analise_uploads): %v", err)
		}
		if err := db.AutoMigrate(&models.Dashboard{}); err != nil {
			log.Printf("migration warning (dashboards): %v", err)
		}
		if err := db.AutoMigrate(&models.AnaliseJPChart{}); err != nil {
			log.Printf("migration warning (analise_jp_charts): %v", err)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
	}
	seedDB()
}

func seedDB() {
	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count)
	if count == 0 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{
			Nome:      "Administrador",
			Email:     "admin@example.com",
			SenhaHash: hashedPassword,
			Admin:     true,
		}
		db.Create(&admin)
		log.Println("Seeded admin user: email=admin@example.com, password=admin123")
	}
	// Ensure upload directory exists
	ensureUploadBase()
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored uploads (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}

// maxUploadBytes returns the upload size cap (MAX_UPLOAD_SIZE_MB env, default 15MB).
// Larger files are rejected before any processing.
func maxUploadBytes() int64 {
	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		if mb, err := strconv.ParseInt(v, 10, 64); err == nil && mb > 0 {
			return mb * 1024 * 1024
		}
	}
	return 15 * 1024 * 1024
}
