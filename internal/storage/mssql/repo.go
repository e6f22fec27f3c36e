// Package mssql implements a SQL Server-backed storage.Warehouse using
// go-mssqldb. Generated surrogate keys come from OUTPUT INSERTED clauses and
// identity generators are restarted with DBCC CHECKIDENT RESEED.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"flightdw/internal/schema"
	"flightdw/internal/storage"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Warehouse, error) {
		return Open(ctx, cfg)
	})
}

// Warehouse is a SQL Server-backed implementation of storage.Warehouse.
type Warehouse struct {
	db *sql.DB
	tx *sql.Tx
}

// Open validates the DSN, connects, and optionally applies the warehouse DDL.
func Open(ctx context.Context, cfg storage.Config) (*Warehouse, error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql: dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storage.ConnErr(fmt.Errorf("mssql: ping: %w", err))
	}
	db.SetMaxOpenConns(1)

	w := &Warehouse{db: db}
	if cfg.AutoCreateTables {
		stmts, err := schema.CreateStatements("mssql")
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		for _, s := range stmts {
			if _, err := db.ExecContext(ctx, s); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("mssql: create tables: %w", err)
			}
		}
	}
	return w, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (w *Warehouse) h() execer {
	if w.tx != nil {
		return w.tx
	}
	return w.db
}

func (w *Warehouse) Begin(ctx context.Context) error {
	if w.tx != nil {
		return fmt.Errorf("mssql: transaction already open")
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.ConnErr(fmt.Errorf("mssql: begin: %w", err))
	}
	w.tx = tx
	return nil
}

func (w *Warehouse) Commit(ctx context.Context) error {
	if w.tx == nil {
		return fmt.Errorf("mssql: no open transaction")
	}
	err := w.tx.Commit()
	w.tx = nil
	if err != nil {
		return storage.ConnErr(fmt.Errorf("mssql: commit: %w", err))
	}
	return nil
}

func (w *Warehouse) Reset(ctx context.Context) error {
	deletes := []string{
		schema.TableFact, schema.TableDate, schema.TableAirport,
		schema.TableAirline, schema.TablePassenger,
	}
	for _, t := range deletes {
		if _, err := w.h().ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("mssql: reset %s: %w", t, err)
		}
	}
	for _, t := range []string{
		schema.TableFact, schema.TableAirport, schema.TableAirline, schema.TablePassenger,
	} {
		stmt := fmt.Sprintf("DBCC CHECKIDENT ('%s', RESEED, 0)", t)
		if _, err := w.h().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: reseed %s: %w", t, err)
		}
	}
	return nil
}

func (w *Warehouse) insertReturning(ctx context.Context, query string, args ...any) (int64, error) {
	var sk int64
	if err := w.h().QueryRowContext(ctx, query, args...).Scan(&sk); err != nil {
		return 0, err
	}
	return sk, nil
}

func (w *Warehouse) InsertAirline(ctx context.Context, code string, name any) (int64, error) {
	sk, err := w.insertReturning(ctx,
		"INSERT INTO Dim_Airline (airline_code, airline_name) OUTPUT INSERTED.airline_sk VALUES (@p1, @p2)",
		code, name)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert airline: %w", err)
	}
	return sk, nil
}

func (w *Warehouse) InsertPassenger(ctx context.Context, p schema.Passenger) (int64, error) {
	sk, err := w.insertReturning(ctx,
		`INSERT INTO Dim_Passenger
			(passenger_id, passenger_gender, passenger_age, passenger_nationality)
		OUTPUT INSERTED.passenger_sk VALUES (@p1, @p2, @p3, @p4)`,
		p.ID, p.Gender, p.Age, p.Nationality)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert passenger: %w", err)
	}
	return sk, nil
}

func (w *Warehouse) InsertAirport(ctx context.Context, code string) (int64, error) {
	sk, err := w.insertReturning(ctx,
		"INSERT INTO Dim_Airport (airport_code) OUTPUT INSERTED.airport_sk VALUES (@p1)", code)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert airport: %w", err)
	}
	return sk, nil
}

func (w *Warehouse) InsertDate(ctx context.Context, d schema.DateRow) error {
	_, err := w.h().ExecContext(ctx,
		"INSERT INTO Dim_Date (date_sk, date, year, month, day, weekday) VALUES (@p1, @p2, @p3, @p4, @p5, @p6)",
		d.Key, d.Date, d.Year, d.Month, d.Day, d.Weekday)
	if err != nil {
		return fmt.Errorf("mssql: insert date: %w", err)
	}
	return nil
}

func (w *Warehouse) InsertFlight(ctx context.Context, f schema.Flight) error {
	_, err := w.h().ExecContext(ctx,
		`INSERT INTO Fact_Flight (
			passenger_sk, airline_sk, origin_airport_sk, destination_airport_sk, date_sk,
			flight_number, aircraft_type, cabin_class, seat, sales_channel, payment_method, status,
			departure_ts, arrival_ts, duration_min, delay_min, price_estimate, bags_total, bags_checked
		) VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11, @p12, @p13, @p14, @p15, @p16, @p17, @p18, @p19)`,
		f.PassengerSK, f.AirlineSK, f.OriginAirportSK, f.DestinationAirportSK, f.DateKey,
		f.FlightNumber, f.AircraftType, f.CabinClass, f.Seat, f.SalesChannel, f.PaymentMethod, f.Status,
		f.DepartureTS, f.ArrivalTS, f.DurationMin, f.DelayMin, f.PriceEstimate, f.BagsTotal, f.BagsChecked)
	if err != nil {
		return fmt.Errorf("mssql: insert flight: %w", err)
	}
	return nil
}

func (w *Warehouse) Query(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := w.h().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("mssql: columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("mssql: scan: %w", err)
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
