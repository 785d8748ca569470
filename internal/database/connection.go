package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/MEDSABRY98/BHS-sub001/internal/config"
)

// NewConnection opens the MySQL pool, creating the database on first run
// when the configured user is allowed to.
func NewConnection(cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		if !strings.Contains(err.Error(), "Unknown database") {
			return nil, fmt.Errorf("error pinging database: %w", err)
		}

		log.Info().Str("database", cfg.Database.Name).Msg("database does not exist, creating it")
		db.Close()

		rootDB, err := sql.Open("mysql", rootDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("error connecting to MySQL root: %w", err)
		}
		defer rootDB.Close()

		_, err = rootDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", cfg.Database.Name))
		if err != nil {
			return nil, fmt.Errorf("error creating database: %w", err)
		}

		db, err = sql.Open("mysql", cfg.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("error connecting to new database: %w", err)
		}
		if err = db.Ping(); err != nil {
			return nil, fmt.Errorf("error verifying connection to new database: %w", err)
		}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info().Str("database", cfg.Database.Name).Msg("connected to MySQL")
	return db, nil
}

func rootDSN(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/?parseTime=true",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
	)
}
