package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"flightdw/internal/clean"
	"flightdw/internal/logging"
	"flightdw/internal/metrics"
	"flightdw/internal/schema"
	"flightdw/internal/storage"
	"flightdw/pkg/records"
)

// maxCapturedErrors bounds the error descriptors kept in Stats. Further
// failures still count as skips but are not stored.
const maxCapturedErrors = 15

// RowError describes one skipped record that failed with an error.
type RowError struct {
	RecordID string
	Reason   string
}

// Stats are the per-run statistics reported when the run finishes.
type Stats struct {
	Inserted int
	Skipped  int
	Errors   []RowError
}

// skip sentinels: structurally incomplete records skip silently (counted,
// no descriptor).
var (
	errMissingDeparture = errors.New("missing departure instant")
	errMissingKey       = errors.New("missing required natural key")
)

// Loader drives one full-refresh load run: reset, load loop, report.
//
// The run is strictly sequential; one record is fully processed before the
// next begins, on a single store session with exactly two commit
// checkpoints (after reset, after the full loop). The key cache lives for
// one Run call only.
type Loader struct {
	wh  storage.Warehouse
	job string

	// Report, when set, runs after a successful load against the loaded
	// store. Its failure is fatal for the run but arrives after the load
	// commit, so loaded data survives.
	Report func(ctx context.Context) error
}

// New returns a Loader writing to wh. job names the run in logs and metrics.
func New(wh storage.Warehouse, job string) *Loader {
	if job == "" {
		job = "flightdw"
	}
	return &Loader{wh: wh, job: job}
}

// Run executes the full pipeline over the transformed record set:
// RESET -> LOADING -> REPORTING -> DONE. Record-level failures are converted
// into skips and never abort the run; fatal failures (lost session, context
// cancellation) propagate with no partial commit beyond the last checkpoint.
func (l *Loader) Run(ctx context.Context, recs []records.Record) (Stats, error) {
	var stats Stats

	if err := l.reset(ctx); err != nil {
		return stats, err
	}
	if err := l.load(ctx, recs, &stats); err != nil {
		return stats, err
	}
	if err := l.report(ctx); err != nil {
		return stats, err
	}

	metrics.RecordRows(l.job, "inserted", int64(stats.Inserted))
	metrics.RecordRows(l.job, "skipped", int64(stats.Skipped))
	logging.L().Info().
		Int("inserted", stats.Inserted).
		Int("skipped", stats.Skipped).
		Int("errors_captured", len(stats.Errors)).
		Msg("run finished")
	return stats, nil
}

// reset performs the full-refresh: delete all target rows, restart the key
// generators, and commit so the load loop starts from a durable empty state.
func (l *Loader) reset(ctx context.Context) (err error) {
	log := logging.WithPhase("reset")
	start := time.Now()
	defer func() { metrics.RecordStep(l.job, "reset", err, time.Since(start)) }()

	if err = l.wh.Begin(ctx); err != nil {
		return err
	}
	if err = l.wh.Reset(ctx); err != nil {
		return fmt.Errorf("full refresh: %w", err)
	}
	if err = l.wh.Commit(ctx); err != nil {
		return err
	}
	log.Info().Msg("target tables cleared, identities reseeded")
	return nil
}

func (l *Loader) load(ctx context.Context, recs []records.Record, stats *Stats) (err error) {
	log := logging.WithPhase("load")
	start := time.Now()
	defer func() { metrics.RecordStep(l.job, "load", err, time.Since(start)) }()

	if err = l.wh.Begin(ctx); err != nil {
		return err
	}
	cache := newKeyCache()

	for i, rec := range recs {
		rowErr := l.loadRecord(ctx, cache, rec)
		if rowErr == nil {
			stats.Inserted++
			continue
		}
		if storage.IsFatal(rowErr) {
			return fmt.Errorf("record %s: %w", recordID(rec, i), rowErr)
		}

		stats.Skipped++
		if errors.Is(rowErr, errMissingDeparture) || errors.Is(rowErr, errMissingKey) {
			// Structurally incomplete rows skip silently.
			continue
		}
		id := recordID(rec, i)
		log.Warn().Str("record_id", id).Err(rowErr).Msg("record skipped")
		if len(stats.Errors) < maxCapturedErrors {
			stats.Errors = append(stats.Errors, RowError{RecordID: id, Reason: rowErr.Error()})
		}
	}

	if err = l.wh.Commit(ctx); err != nil {
		return err
	}
	log.Info().Int("inserted", stats.Inserted).Int("skipped", stats.Skipped).Msg("load committed")
	return nil
}

// loadRecord processes one transformed record: natural-key extraction,
// dimension resolution in the fixed order airline -> passenger -> origin ->
// destination -> date, then the fact insert. Any returned error means the
// record did not produce a fact row; dimension rows created earlier in the
// same record stay (an idempotent re-run clears them).
func (l *Loader) loadRecord(ctx context.Context, cache *keyCache, rec records.Record) error {
	dep, ok := rec[schema.ColDepartureDatetime].(time.Time)
	if !ok {
		return errMissingDeparture
	}

	airlineCode, ok := textKey(rec[schema.ColAirlineCode])
	if !ok {
		return fmt.Errorf("%w: airline code", errMissingKey)
	}
	passengerID, ok := textKey(rec[schema.ColPassengerID])
	if !ok {
		return fmt.Errorf("%w: passenger id", errMissingKey)
	}
	originCode, ok := textKey(rec[schema.ColOriginAirport])
	if !ok {
		return fmt.Errorf("%w: origin airport", errMissingKey)
	}
	destinationCode, ok := textKey(rec[schema.ColDestinationAirport])
	if !ok {
		return fmt.Errorf("%w: destination airport", errMissingKey)
	}

	airlineSK, err := cache.resolveAirline(ctx, l.wh, airlineCode, rec[schema.ColAirlineName])
	if err != nil {
		return fmt.Errorf("airline %s: %w", airlineCode, err)
	}
	passengerSK, err := cache.resolvePassenger(ctx, l.wh, schema.Passenger{
		ID:          passengerID,
		Gender:      clean.Text(rec[schema.ColPassengerGender], true),
		Age:         clean.Int(rec[schema.ColPassengerAge], nil),
		Nationality: clean.Text(rec[schema.ColPassengerNat], true),
	})
	if err != nil {
		return fmt.Errorf("passenger %s: %w", passengerID, err)
	}
	originSK, err := cache.resolveAirport(ctx, l.wh, originCode)
	if err != nil {
		return fmt.Errorf("airport %s: %w", originCode, err)
	}
	destinationSK, err := cache.resolveAirport(ctx, l.wh, destinationCode)
	if err != nil {
		return fmt.Errorf("airport %s: %w", destinationCode, err)
	}
	dateKey, err := cache.resolveDate(ctx, l.wh, dep)
	if err != nil {
		return fmt.Errorf("date %s: %w", dep.Format("2006-01-02"), err)
	}

	flight := schema.Flight{
		PassengerSK:          passengerSK,
		AirlineSK:            airlineSK,
		OriginAirportSK:      originSK,
		DestinationAirportSK: destinationSK,
		DateKey:              dateKey,
		FlightNumber:         clean.Text(rec[schema.ColFlightNumber], true),
		AircraftType:         clean.Text(rec[schema.ColAircraftType], true),
		CabinClass:           clean.Text(rec[schema.ColCabinClass], true),
		Seat:                 clean.Text(rec[schema.ColSeat], true),
		SalesChannel:         clean.Text(rec[schema.ColSalesChannel], true),
		PaymentMethod:        clean.Text(rec[schema.ColPaymentMethod], true),
		Status:               clean.Text(rec[schema.ColStatus], true),
		DepartureTS:          dep,
		DurationMin:          clean.Int(rec[schema.ColDurationMin], int64(0)).(int64),
		DelayMin:             clean.Int(rec[schema.ColDelayMin], int64(0)).(int64),
		PriceEstimate:        clean.Price(rec[schema.ColTicketPrice]),
		BagsTotal:            clean.Int(rec[schema.ColBagsTotal], int64(0)).(int64),
		BagsChecked:          clean.Int(rec[schema.ColBagsChecked], int64(0)).(int64),
	}
	if arr, ok := rec[schema.ColArrivalDatetime].(time.Time); ok {
		flight.ArrivalTS = arr
	}

	if err := l.wh.InsertFlight(ctx, flight); err != nil {
		return fmt.Errorf("fact insert: %w", err)
	}
	return nil
}

func (l *Loader) report(ctx context.Context) (err error) {
	if l.Report == nil {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordStep(l.job, "report", err, time.Since(start)) }()
	return l.Report(ctx)
}

// textKey extracts a non-empty string natural key from a transformed value.
func textKey(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// recordID prefers the source record_id column and falls back to the
// 1-based position in the batch.
func recordID(rec records.Record, idx int) string {
	if s, ok := rec[schema.ColRecordID].(string); ok && s != "" {
		return s
	}
	return strconv.Itoa(idx + 1)
}
