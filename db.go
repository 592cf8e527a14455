package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQL(dsn string) *sql.DB {
	// Parse DSN and force IPv4 to avoid IPv6-only routes on some hosts
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		log.Fatalf("[DB] parse DSN: %v", err)
	}
	cfg.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
		return d.DialContext(ctx, "tcp4", addr)
	}

	db := stdlib.OpenDB(*cfg)

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Fast fail if unreachable
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	return db
}

func openGorm(dsn string, gl gormlogger.Interface) (*gorm.DB, error) {
	sqlDB := openSQL(dsn)
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gl})
}

// AutoMigrate all app tables.
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&Prompt{},
		&PromptComment{},
		&PromptLike{},
	)
}
