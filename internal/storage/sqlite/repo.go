// Package sqlite implements a SQLite-backed storage.Warehouse using
// database/sql with the modernc.org/sqlite driver. Generated surrogate keys
// come from LastInsertId; identity reseed clears the table's row in
// sqlite_sequence.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // alternative: github.com/mattn/go-sqlite3

	"flightdw/internal/schema"
	"flightdw/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Warehouse, error) {
		return Open(ctx, cfg)
	})
}

// SQLite stores timestamps and dates as TEXT in these layouts.
const (
	tsLayout   = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// Warehouse is a SQLite-backed implementation of storage.Warehouse.
type Warehouse struct {
	db *sql.DB
	tx *sql.Tx
}

// Open opens a SQLite connection for the given DSN (a file path or a
// file: URI) and optionally applies the warehouse DDL.
func Open(ctx context.Context, cfg storage.Config) (*Warehouse, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, storage.ConnErr(fmt.Errorf("sqlite: ping: %w", err))
	}

	// One session, one writer: the loader is strictly sequential.
	db.SetMaxOpenConns(1)
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	w := &Warehouse{db: db}
	if cfg.AutoCreateTables {
		stmts, err := schema.CreateStatements("sqlite")
		if err != nil {
			db.Close()
			return nil, err
		}
		for _, s := range stmts {
			if _, err := db.ExecContext(ctx, s); err != nil {
				db.Close()
				return nil, fmt.Errorf("sqlite: create tables: %w", err)
			}
		}
	}
	return w, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (w *Warehouse) h() execer {
	if w.tx != nil {
		return w.tx
	}
	return w.db
}

func (w *Warehouse) Begin(ctx context.Context) error {
	if w.tx != nil {
		return fmt.Errorf("sqlite: transaction already open")
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.ConnErr(fmt.Errorf("sqlite: begin: %w", err))
	}
	w.tx = tx
	return nil
}

func (w *Warehouse) Commit(ctx context.Context) error {
	if w.tx == nil {
		return fmt.Errorf("sqlite: no open transaction")
	}
	err := w.tx.Commit()
	w.tx = nil
	if err != nil {
		return storage.ConnErr(fmt.Errorf("sqlite: commit: %w", err))
	}
	return nil
}

// resetTables lists deletion order: fact first, then dimensions.
var resetTables = []string{
	schema.TableFact,
	schema.TableDate,
	schema.TableAirport,
	schema.TableAirline,
	schema.TablePassenger,
}

func (w *Warehouse) Reset(ctx context.Context) error {
	for _, t := range resetTables {
		if _, err := w.h().ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("sqlite: reset %s: %w", t, err)
		}
	}
	// sqlite_sequence only exists once an AUTOINCREMENT table has seen an
	// insert; a fresh database has nothing to reseed.
	for _, t := range resetTables {
		if t == schema.TableDate {
			continue // date_sk is caller-supplied, no generator
		}
		if _, err := w.h().ExecContext(ctx,
			"DELETE FROM sqlite_sequence WHERE name = ?", t); err != nil {
			if strings.Contains(err.Error(), "no such table") {
				return nil
			}
			return fmt.Errorf("sqlite: reseed %s: %w", t, err)
		}
	}
	return nil
}

func (w *Warehouse) InsertAirline(ctx context.Context, code string, name any) (int64, error) {
	res, err := w.h().ExecContext(ctx,
		"INSERT INTO Dim_Airline (airline_code, airline_name) VALUES (?, ?)",
		code, name)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert airline: %w", err)
	}
	return res.LastInsertId()
}

func (w *Warehouse) InsertPassenger(ctx context.Context, p schema.Passenger) (int64, error) {
	res, err := w.h().ExecContext(ctx,
		`INSERT INTO Dim_Passenger
			(passenger_id, passenger_gender, passenger_age, passenger_nationality)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Gender, p.Age, p.Nationality)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert passenger: %w", err)
	}
	return res.LastInsertId()
}

func (w *Warehouse) InsertAirport(ctx context.Context, code string) (int64, error) {
	res, err := w.h().ExecContext(ctx,
		"INSERT INTO Dim_Airport (airport_code) VALUES (?)", code)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert airport: %w", err)
	}
	return res.LastInsertId()
}

func (w *Warehouse) InsertDate(ctx context.Context, d schema.DateRow) error {
	_, err := w.h().ExecContext(ctx,
		"INSERT INTO Dim_Date (date_sk, date, year, month, day, weekday) VALUES (?, ?, ?, ?, ?, ?)",
		d.Key, d.Date.Format(dateLayout), d.Year, d.Month, d.Day, d.Weekday)
	if err != nil {
		return fmt.Errorf("sqlite: insert date: %w", err)
	}
	return nil
}

func (w *Warehouse) InsertFlight(ctx context.Context, f schema.Flight) error {
	var arrival any
	if t, ok := f.ArrivalTS.(time.Time); ok {
		arrival = t.Format(tsLayout)
	}
	_, err := w.h().ExecContext(ctx,
		`INSERT INTO Fact_Flight (
			passenger_sk, airline_sk, origin_airport_sk, destination_airport_sk, date_sk,
			flight_number, aircraft_type, cabin_class, seat, sales_channel, payment_method, status,
			departure_ts, arrival_ts, duration_min, delay_min, price_estimate, bags_total, bags_checked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.PassengerSK, f.AirlineSK, f.OriginAirportSK, f.DestinationAirportSK, f.DateKey,
		f.FlightNumber, f.AircraftType, f.CabinClass, f.Seat, f.SalesChannel, f.PaymentMethod, f.Status,
		f.DepartureTS.Format(tsLayout), arrival,
		f.DurationMin, f.DelayMin, f.PriceEstimate, f.BagsTotal, f.BagsChecked)
	if err != nil {
		return fmt.Errorf("sqlite: insert flight: %w", err)
	}
	return nil
}

func (w *Warehouse) Query(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := w.h().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}

func (w *Warehouse) Close() error {
	if w.tx != nil {
		_ = w.tx.Rollback()
		w.tx = nil
	}
	return w.db.Close()
}
