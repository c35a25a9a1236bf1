package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// pingTimeout bounds the startup connectivity check.
const pingTimeout = 5 * time.Second

// DSN assembles the MySQL connection string for the intake database.
// parseTime maps DATETIME columns onto time.Time and loc pins them to UTC
// so reminder due dates compare consistently.
func DSN(user, pass, host, port, name string) string {
	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, net.JoinHostPort(host, port), name)
}

// Open connects to MySQL, applies the configured pool limits and verifies
// the connection with a bounded ping.
func Open(user, pass, host, port, name string, maxConns, connLifeMin int) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(time.Duration(connLifeMin) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
