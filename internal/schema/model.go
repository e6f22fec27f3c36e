// Package schema defines the star-schema warehouse model: the raw input
// column names, the warehouse row types, the transform chain that turns raw
// records into warehouse-typed records, and the per-dialect DDL.
package schema

import (
	"strings"
	"time"
)

// Warehouse table names.
const (
	TableAirline   = "Dim_Airline"
	TablePassenger = "Dim_Passenger"
	TableAirport   = "Dim_Airport"
	TableDate      = "Dim_Date"
	TableFact      = "Fact_Flight"
)

// Raw dataset column names, as they appear in the source CSV header.
const (
	ColAirlineCode        = "airline_code"
	ColAirlineName        = "airline_name"
	ColFlightNumber       = "flight_number"
	ColDepartureDatetime  = "departure_datetime"
	ColArrivalDatetime    = "arrival_datetime"
	ColOriginAirport      = "origin_airport"
	ColDestinationAirport = "destination_airport"
	ColPassengerID        = "passenger_id"
	ColPassengerGender    = "passenger_gender"
	ColPassengerAge       = "passenger_age"
	ColPassengerNat       = "passenger_nationality"
	ColStatus             = "status"
	ColAircraftType       = "aircraft_type"
	ColCabinClass         = "cabin_class"
	ColSeat               = "seat"
	ColSalesChannel       = "sales_channel"
	ColPaymentMethod      = "payment_method"
	ColTicketPrice        = "ticket_price"
	ColDurationMin        = "duration_min"
	ColDelayMin           = "delay_min"
	ColBagsTotal          = "bags_total"
	ColBagsChecked        = "bags_checked"
	ColRecordID           = "record_id"
)

// RawColumns is the ordered list of expected source columns.
var RawColumns = []string{
	ColAirlineCode, ColAirlineName, ColFlightNumber,
	ColDepartureDatetime, ColArrivalDatetime,
	ColOriginAirport, ColDestinationAirport,
	ColPassengerID, ColPassengerGender, ColPassengerAge, ColPassengerNat,
	ColStatus, ColAircraftType, ColCabinClass, ColSeat,
	ColSalesChannel, ColPaymentMethod, ColTicketPrice,
	ColDurationMin, ColDelayMin, ColBagsTotal, ColBagsChecked,
	ColRecordID,
}

// Passenger is one Dim_Passenger row keyed by the natural passenger id.
// Gender, Age, and Nationality are nullable (nil loads as NULL).
type Passenger struct {
	ID          string
	Gender      any // string
	Age         any // int64
	Nationality any // string
}

// DateRow is one Dim_Date row. Key is the 8-digit YYYYMMDD integer derived
// from the departure instant's calendar date; it doubles as the fact table's
// date foreign key, so the store never generates an identity for it.
type DateRow struct {
	Key     int64
	Date    time.Time
	Year    int
	Month   int
	Day     int
	Weekday string
}

// Flight is one Fact_Flight row with resolved dimension keys and the cleaned
// measure/attribute columns. Fields typed any are nullable.
type Flight struct {
	PassengerSK          int64
	AirlineSK            int64
	OriginAirportSK      int64
	DestinationAirportSK int64
	DateKey              int64

	FlightNumber  any // string
	AircraftType  any // string
	CabinClass    any // string
	Seat          any // string
	SalesChannel  any // string
	PaymentMethod any // string
	Status        any // string

	DepartureTS   time.Time
	ArrivalTS     any // time.Time
	DurationMin   int64
	DelayMin      int64
	PriceEstimate any // float64
	BagsTotal     int64
	BagsChecked   int64
}

// DateKey derives the 8-digit YYYYMMDD integer for t's calendar date.
func DateKey(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// DateRowFrom builds the full Dim_Date row for t's calendar date. The
// weekday name is the upper-cased English weekday, e.g. "TUESDAY".
func DateRowFrom(t time.Time) DateRow {
	y, m, d := t.Date()
	return DateRow{
		Key:     DateKey(t),
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Year:    y,
		Month:   int(m),
		Day:     d,
		Weekday: strings.ToUpper(t.Weekday().String()),
	}
}
