package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"unihaven-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// SeedDatabase loads the slow-changing reference data: the campuses and a
// default specialist account. Idempotent, runs on every start.
func SeedDatabase() {
	var campusCount int64
	DB.Model(&models.Campus{}).Count(&campusCount)
	if campusCount == 0 {
		campuses := []models.Campus{
			{Name: "Main Campus", Latitude: 22.28405, Longitude: 114.13784},
			{Name: "Sassoon Road Campus", Latitude: 22.2675, Longitude: 114.12881},
			{Name: "Swire Institute of Marine Science", Latitude: 22.20805, Longitude: 114.26021},
			{Name: "Kadoorie Centre", Latitude: 22.43022, Longitude: 114.11429},
		}
		if err := DB.Create(&campuses).Error; err != nil {
			log.Fatalf("Failed to seed campuses: %v", err)
		}
		log.Println("Campuses seeded")
	}

	var specialistCount int64
	DB.Model(&models.Specialist{}).Count(&specialistCount)
	if specialistCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("specialist123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default specialist password: %v", err)
		} else {
			var mainCampus models.Campus
			var campusID *uint
			if err := DB.Where("name = ?", "Main Campus").First(&mainCampus).Error; err == nil {
				campusID = &mainCampus.ID
			}
			specialist := models.Specialist{
				Name:     "Accommodation Specialist",
				Email:    "specialist@unihaven.local",
				Password: string(hash),
				CampusID: campusID,
			}
			if err := DB.Create(&specialist).Error; err != nil {
				log.Printf("warning: failed to create default specialist: %v", err)
			} else {
				log.Println("Default specialist seeded")
			}
		}
	}
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "unihaven_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Campus{},
		&models.Student{},
		&models.Specialist{},
		&models.Accommodation{},
		&models.AccommodationOffering{},
		&models.Reservation{},
		&models.Rating{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
