// Package database loads the four silver datasets from MariaDB/MySQL.
// The bronze→silver cleanup (null filters, dedup) is pushed into the
// SELECTs so the pipeline only ever sees clean records.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"lifecycle-monthly/pkg/models"

	_ "github.com/go-sql-driver/mysql"
)

const (
	ordersTable      = "orders"
	consumersTable   = "consumers"
	merchantsTable   = "restaurants"
	assignmentsTable = "ab_test_ref"
)

// Open accepts a mariadb:// or mysql:// URL or a native driver DSN.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

// LoadOrders returns cleaned orders: non-null customer, positive
// amount, the raw items payload untouched for discount extraction.
func LoadOrders(ctx context.Context, db *sql.DB) ([]models.Order, error) {
	q := fmt.Sprintf(`
		SELECT o.order_id, o.customer_id, o.merchant_id,
		       o.order_created_at, o.order_total_amount, o.items
		FROM %s o
		WHERE o.customer_id IS NOT NULL
		  AND o.order_total_amount IS NOT NULL
		  AND o.order_total_amount > 0
	`, ordersTable)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []models.Order
	for rows.Next() {
		var (
			o     models.Order
			items sql.NullString
		)
		if err := rows.Scan(&o.OrderID, &o.CustomerID, &o.MerchantID,
			&o.CreatedAt, &o.TotalAmount, &items); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if items.Valid {
			o.Items = items.String
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	return out, nil
}

// LoadConsumers returns deduplicated consumer accounts.
func LoadConsumers(ctx context.Context, db *sql.DB) ([]models.Consumer, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT c.customer_id, c.created_at, c.active
		FROM %s c
		WHERE c.customer_id IS NOT NULL
	`, consumersTable)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query consumers: %w", err)
	}
	defer rows.Close()

	var out []models.Consumer
	for rows.Next() {
		var c models.Consumer
		if err := rows.Scan(&c.CustomerID, &c.CreatedAt, &c.Active); err != nil {
			return nil, fmt.Errorf("scan consumer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read consumers: %w", err)
	}
	return out, nil
}

// LoadMerchants returns deduplicated merchant records.
func LoadMerchants(ctx context.Context, db *sql.DB) ([]models.Merchant, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT r.id, r.created_at, r.enabled
		FROM %s r
		WHERE r.id IS NOT NULL
	`, merchantsTable)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query merchants: %w", err)
	}
	defer rows.Close()

	var out []models.Merchant
	for rows.Next() {
		var m models.Merchant
		if err := rows.Scan(&m.MerchantID, &m.CreatedAt, &m.Enabled); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read merchants: %w", err)
	}
	return out, nil
}

// LoadAssignments returns deduplicated A/B test assignments. A
// customer left with two different groups after dedup is caught by
// the classifier, not here.
func LoadAssignments(ctx context.Context, db *sql.DB) ([]models.Assignment, error) {
	q := fmt.Sprintf(`
		SELECT DISTINCT a.customer_id, a.is_target
		FROM %s a
		WHERE a.customer_id IS NOT NULL
	`, assignmentsTable)

	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []models.Assignment
	for rows.Next() {
		var (
			a     models.Assignment
			group string
		)
		if err := rows.Scan(&a.CustomerID, &group); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		a.Group = models.Group(group)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read assignments: %w", err)
	}
	return out, nil
}
