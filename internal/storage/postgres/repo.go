// Package postgres implements a Postgres-backed storage.Warehouse using
// pgx. Generated surrogate keys come from INSERT ... RETURNING.
//
// Postgres aborts the whole transaction when any statement inside it fails,
// which would break the loader's per-record skip-on-error contract. Each
// insert therefore runs inside a statement-level savepoint that is rolled
// back on failure, leaving the run-level transaction usable.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"flightdw/internal/schema"
	"flightdw/internal/storage"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Warehouse, error) {
		return Open(ctx, cfg)
	})
}

// Warehouse is a Postgres-backed implementation of storage.Warehouse.
type Warehouse struct {
	conn *pgx.Conn
	tx   pgx.Tx
}

// Open connects using a pgx DSN (postgresql://...) and optionally applies
// the warehouse DDL.
func Open(ctx context.Context, cfg storage.Config) (*Warehouse, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	conn, err := pgx.Connect(ctx, cfg.DSN)
	if err != nil {
		return nil, storage.ConnErr(fmt.Errorf("postgres: connect: %w", err))
	}

	w := &Warehouse{conn: conn}
	if cfg.AutoCreateTables {
		stmts, err := schema.CreateStatements("postgres")
		if err != nil {
			_ = conn.Close(ctx)
			return nil, err
		}
		for _, s := range stmts {
			if _, err := conn.Exec(ctx, s); err != nil {
				_ = conn.Close(ctx)
				return nil, fmt.Errorf("postgres: create tables: %w", err)
			}
		}
	}
	return w, nil
}

// executor is satisfied by both *pgx.Conn and pgx.Tx.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (w *Warehouse) h() executor {
	if w.tx != nil {
		return w.tx
	}
	return w.conn
}

// guarded runs fn inside a statement-level savepoint when a run transaction
// is open, so a failed statement does not poison the transaction.
func (w *Warehouse) guarded(ctx context.Context, fn func(executor) error) error {
	if w.tx == nil {
		return fn(w.conn)
	}
	if _, err := w.tx.Exec(ctx, "SAVEPOINT rec"); err != nil {
		return w.wrap(err)
	}
	if err := fn(w.tx); err != nil {
		if _, rbErr := w.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT rec"); rbErr != nil {
			return storage.ConnErr(rbErr)
		}
		return w.wrap(err)
	}
	_, err := w.tx.Exec(ctx, "RELEASE SAVEPOINT rec")
	return w.wrap(err)
}

// wrap upgrades err to a fatal connection error when the session is gone.
func (w *Warehouse) wrap(err error) error {
	if err == nil {
		return nil
	}
	if w.conn.IsClosed() {
		return storage.ConnErr(err)
	}
	return err
}

func (w *Warehouse) Begin(ctx context.Context) error {
	if w.tx != nil {
		return fmt.Errorf("postgres: transaction already open")
	}
	tx, err := w.conn.Begin(ctx)
	if err != nil {
		return storage.ConnErr(fmt.Errorf("postgres: begin: %w", err))
	}
	w.tx = tx
	return nil
}

func (w *Warehouse) Commit(ctx context.Context) error {
	if w.tx == nil {
		return fmt.Errorf("postgres: no open transaction")
	}
	err := w.tx.Commit(ctx)
	w.tx = nil
	if err != nil {
		return storage.ConnErr(fmt.Errorf("postgres: commit: %w", err))
	}
	return nil
}

// reseed restarts the identity generators; Dim_Date has none.
var reseed = []string{
	"ALTER TABLE Fact_Flight ALTER COLUMN flight_sk RESTART WITH 1",
	"ALTER TABLE Dim_Airport ALTER COLUMN airport_sk RESTART WITH 1",
	"ALTER TABLE Dim_Airline ALTER COLUMN airline_sk RESTART WITH 1",
	"ALTER TABLE Dim_Passenger ALTER COLUMN passenger_sk RESTART WITH 1",
}

func (w *Warehouse) Reset(ctx context.Context) error {
	deletes := []string{
		schema.TableFact, schema.TableDate, schema.TableAirport,
		schema.TableAirline, schema.TablePassenger,
	}
	for _, t := range deletes {
		if _, err := w.h().Exec(ctx, "DELETE FROM "+t); err != nil {
			return w.wrap(fmt.Errorf("postgres: reset %s: %w", t, err))
		}
	}
	for _, s := range reseed {
		if _, err := w.h().Exec(ctx, s); err != nil {
			return w.wrap(fmt.Errorf("postgres: reseed: %w", err))
		}
	}
	return nil
}

func (w *Warehouse) insertReturning(ctx context.Context, query string, args ...any) (int64, error) {
	var sk int64
	err := w.guarded(ctx, func(h executor) error {
		return h.QueryRow(ctx, query, args...).Scan(&sk)
	})
	return sk, err
}

func (w *Warehouse) InsertAirline(ctx context.Context, code string, name any) (int64, error) {
	return w.insertReturning(ctx,
		"INSERT INTO Dim_Airline (airline_code, airline_name) VALUES ($1, $2) RETURNING airline_sk",
		code, name)
}

func (w *Warehouse) InsertPassenger(ctx context.Context, p schema.Passenger) (int64, error) {
	return w.insertReturning(ctx,
		`INSERT INTO Dim_Passenger
			(passenger_id, passenger_gender, passenger_age, passenger_nationality)
		VALUES ($1, $2, $3, $4) RETURNING passenger_sk`,
		p.ID, p.Gender, p.Age, p.Nationality)
}

func (w *Warehouse) InsertAirport(ctx context.Context, code string) (int64, error) {
	return w.insertReturning(ctx,
		"INSERT INTO Dim_Airport (airport_code) VALUES ($1) RETURNING airport_sk", code)
}

func (w *Warehouse) InsertDate(ctx context.Context, d schema.DateRow) error {
	return w.guarded(ctx, func(h executor) error {
		_, err := h.Exec(ctx,
			"INSERT INTO Dim_Date (date_sk, date, year, month, day, weekday) VALUES ($1, $2, $3, $4, $5, $6)",
			d.Key, d.Date, d.Year, d.Month, d.Day, d.Weekday)
		return err
	})
}

func (w *Warehouse) InsertFlight(ctx context.Context, f schema.Flight) error {
	return w.guarded(ctx, func(h executor) error {
		_, err := h.Exec(ctx,
			`INSERT INTO Fact_Flight (
				passenger_sk, airline_sk, origin_airport_sk, destination_airport_sk, date_sk,
				flight_number, aircraft_type, cabin_class, seat, sales_channel, payment_method, status,
				departure_ts, arrival_ts, duration_min, delay_min, price_estimate, bags_total, bags_checked
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			f.PassengerSK, f.AirlineSK, f.OriginAirportSK, f.DestinationAirportSK, f.DateKey,
			f.FlightNumber, f.AircraftType, f.CabinClass, f.Seat, f.SalesChannel, f.PaymentMethod, f.Status,
			f.DepartureTS, f.ArrivalTS, f.DurationMin, f.DelayMin, f.PriceEstimate, f.BagsTotal, f.BagsChecked)
		return err
	})
}

func (w *Warehouse) Query(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := w.h().Query(ctx, query)
	if err != nil {
		return nil, nil, w.wrap(fmt.Errorf("postgres: query: %w", err))
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = string(f.Name)
	}

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: scan: %w", err)
		}
		out = append(out, vals)
	}
	return cols, out, rows.Err()
}

func (w *Warehouse) Close() error {
	ctx := context.Background()
	if w.tx != nil {
		_ = w.tx.Rollback(ctx)
		w.tx = nil
	}
	return w.conn.Close(ctx)
}
