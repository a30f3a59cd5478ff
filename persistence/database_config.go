package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DB_DRIVER and DB_ARGS take precedence, otherwise DB_HOST DB_PORT DB_USER DB_PASSWORD DB_NAME
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	if driver != "mysql" {
		return nil, errors.New("unsupported database driver '" + driver + "'")
	}

	args := os.Getenv("DB_ARGS")
	if args == "" {
		host := envOrDefault("DB_HOST", "127.0.0.1")
		port := envOrDefault("DB_PORT", "3306")
		name := envOrDefault("DB_NAME", "construxflow")
		user := envOrDefault("DB_USER", "root")
		args = fmt.Sprintf("%s:%s@(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
			user, os.Getenv("DB_PASSWORD"), host, port, name)
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

// PrepareMysqlDatabase create the database named in driverArgs if it does not exist
func PrepareMysqlDatabase(driverArgs string) error {
	cfg, err := mysql.ParseDSN(driverArgs)
	if err != nil {
		return err
	}
	databaseName := cfg.DBName
	if databaseName == "" {
		return errors.New("database name is missing in '" + driverArgs + "'")
	}

	cfg.DBName = ""
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	return err
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
