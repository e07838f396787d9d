package persistence

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	otgorm "github.com/smacker/opentracing-gorm"
)

var ActiveDataSourceManager *DataSourceManager

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_DRIVER (default mysql), DATABASE_ARGS
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	args := os.ExpandEnv(os.Getenv("DATABASE_ARGS"))
	if args == "" {
		return nil, errors.New("environment variable DATABASE_ARGS is not set")
	}
	if driver == "mysql" {
		args = EnsureFoundRows(args)
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

// EnsureFoundRows appends clientFoundRows=true to a mysql DSN when absent.
// Guarded updates count on RowsAffected reporting matched rows: with MySQL's
// default changed-rows semantics an update writing identical values reports 0
// and an idempotent resubmission would be mistaken for a conflict.
func EnsureFoundRows(driverArgs string) string {
	if strings.Contains(driverArgs, "clientFoundRows=") {
		return driverArgs
	}
	if strings.Contains(driverArgs, "?") {
		return driverArgs + "&clientFoundRows=true"
	}
	return driverArgs + "?clientFoundRows=true"
}

type DataSourceManager struct {
	gormDB *gorm.DB

	DatabaseConfig *DatabaseConfig
}

func (m *DataSourceManager) Start() error {
	db, err := connect(m.DatabaseConfig)
	if err != nil {
		return err
	}
	m.gormDB = db
	if os.Getenv("GIN_MODE") != "release" {
		m.gormDB.LogMode(true)
	}
	otgorm.AddGormCallbacks(m.gormDB)
	return nil
}

func (m *DataSourceManager) Stop() {
	if m.gormDB != nil {
		if err := m.gormDB.Close(); err != nil {
			log.Printf("failed to close DB: %v", err)
		}
		m.gormDB = nil
	}
}

// GormDB returns a new gorm session bound to ctx for span propagation.
func (m *DataSourceManager) GormDB(ctx context.Context) *gorm.DB {
	if m.gormDB == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return otgorm.SetSpanToGorm(ctx, m.gormDB.New())
}

func connect(config *DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(config.DriverType, config.DriverArgs)
	if err != nil {
		return nil, err
	}
	err = db.DB().Ping()
	if err != nil {
		return nil, err
	}
	return db, nil
}

// PrepareMysqlDatabase create the database named in the DSN when absent.
// DSN format: user:pass@(host:port)/database?args
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql DSN: " + driverArgs)
	}
	nameAndArgs := driverArgs[idx+1:]
	databaseName := nameAndArgs
	if argsIdx := strings.Index(nameAndArgs, "?"); argsIdx >= 0 {
		databaseName = nameAndArgs[0:argsIdx]
	}
	if databaseName == "" {
		return errors.New("database name not found in DSN")
	}

	db, err := sql.Open("mysql", driverArgs[0:idx+1])
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName +
		" DEFAULT CHARACTER SET utf8mb4 DEFAULT COLLATE utf8mb4_general_ci")
	return err
}
