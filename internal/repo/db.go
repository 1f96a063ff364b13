package repo

import (
	"fmt"
	"log"
	"strings"

	"league-service/internal/config"
	"league-service/internal/model"
	"league-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Player{},
		&model.Season{},
		&model.Ruleset{},
		&model.Tournament{},
		&model.Game{},
		&model.GameResult{},
	}
}

func Open(driver, dsn string) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func InitDB() {
	conf := config.GlobalConfig.Database
	var err error
	DB, err = Open(conf.Driver, conf.DSN)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database",
			zap.String("driver", conf.Driver),
			zap.Error(err),
		)
	}

	if err := DB.AutoMigrate(Models()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}
