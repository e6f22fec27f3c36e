package schema

import "fmt"

// CreateStatements returns the ordered CREATE TABLE statements for the five
// warehouse tables in the given storage dialect. Dimensions come before the
// fact table so foreign key references resolve on first run.
func CreateStatements(kind string) ([]string, error) {
	switch kind {
	case "sqlite":
		return sqliteDDL, nil
	case "postgres":
		return postgresDDL, nil
	case "mssql":
		return mssqlDDL, nil
	default:
		return nil, fmt.Errorf("schema: no DDL for storage kind %q", kind)
	}
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS Dim_Airline (
		airline_sk   INTEGER PRIMARY KEY AUTOINCREMENT,
		airline_code TEXT NOT NULL,
		airline_name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Passenger (
		passenger_sk          INTEGER PRIMARY KEY AUTOINCREMENT,
		passenger_id          TEXT NOT NULL,
		passenger_gender      TEXT,
		passenger_age         INTEGER,
		passenger_nationality TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Airport (
		airport_sk   INTEGER PRIMARY KEY AUTOINCREMENT,
		airport_code TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Date (
		date_sk INTEGER PRIMARY KEY,
		date    TEXT NOT NULL,
		year    INTEGER NOT NULL,
		month   INTEGER NOT NULL,
		day     INTEGER NOT NULL,
		weekday TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Fact_Flight (
		flight_sk              INTEGER PRIMARY KEY AUTOINCREMENT,
		passenger_sk           INTEGER NOT NULL REFERENCES Dim_Passenger(passenger_sk),
		airline_sk             INTEGER NOT NULL REFERENCES Dim_Airline(airline_sk),
		origin_airport_sk      INTEGER NOT NULL REFERENCES Dim_Airport(airport_sk),
		destination_airport_sk INTEGER NOT NULL REFERENCES Dim_Airport(airport_sk),
		date_sk                INTEGER NOT NULL REFERENCES Dim_Date(date_sk),
		flight_number          TEXT,
		aircraft_type          TEXT,
		cabin_class            TEXT,
		seat                   TEXT,
		sales_channel          TEXT,
		payment_method         TEXT,
		status                 TEXT,
		departure_ts           TEXT NOT NULL,
		arrival_ts             TEXT,
		duration_min           INTEGER NOT NULL,
		delay_min              INTEGER NOT NULL,
		price_estimate         REAL,
		bags_total             INTEGER NOT NULL,
		bags_checked           INTEGER NOT NULL
	)`,
}

var postgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS Dim_Airline (
		airline_sk   BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		airline_code TEXT NOT NULL,
		airline_name TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Passenger (
		passenger_sk          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		passenger_id          TEXT NOT NULL,
		passenger_gender      TEXT,
		passenger_age         INTEGER,
		passenger_nationality TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Airport (
		airport_sk   BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		airport_code TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Dim_Date (
		date_sk BIGINT PRIMARY KEY,
		date    DATE NOT NULL,
		year    INTEGER NOT NULL,
		month   INTEGER NOT NULL,
		day     INTEGER NOT NULL,
		weekday TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Fact_Flight (
		flight_sk              BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		passenger_sk           BIGINT NOT NULL REFERENCES Dim_Passenger(passenger_sk),
		airline_sk             BIGINT NOT NULL REFERENCES Dim_Airline(airline_sk),
		origin_airport_sk      BIGINT NOT NULL REFERENCES Dim_Airport(airport_sk),
		destination_airport_sk BIGINT NOT NULL REFERENCES Dim_Airport(airport_sk),
		date_sk                BIGINT NOT NULL REFERENCES Dim_Date(date_sk),
		flight_number          TEXT,
		aircraft_type          TEXT,
		cabin_class            TEXT,
		seat                   TEXT,
		sales_channel          TEXT,
		payment_method         TEXT,
		status                 TEXT,
		departure_ts           TIMESTAMP NOT NULL,
		arrival_ts             TIMESTAMP,
		duration_min           INTEGER NOT NULL,
		delay_min              INTEGER NOT NULL,
		price_estimate         DOUBLE PRECISION,
		bags_total             INTEGER NOT NULL,
		bags_checked           INTEGER NOT NULL
	)`,
}

var mssqlDDL = []string{
	`IF OBJECT_ID('Dim_Airline', 'U') IS NULL CREATE TABLE Dim_Airline (
		airline_sk   INT IDENTITY(1,1) PRIMARY KEY,
		airline_code NVARCHAR(32) NOT NULL,
		airline_name NVARCHAR(255)
	)`,
	`IF OBJECT_ID('Dim_Passenger', 'U') IS NULL CREATE TABLE Dim_Passenger (
		passenger_sk          INT IDENTITY(1,1) PRIMARY KEY,
		passenger_id          NVARCHAR(64) NOT NULL,
		passenger_gender      NVARCHAR(32),
		passenger_age         INT,
		passenger_nationality NVARCHAR(128)
	)`,
	`IF OBJECT_ID('Dim_Airport', 'U') IS NULL CREATE TABLE Dim_Airport (
		airport_sk   INT IDENTITY(1,1) PRIMARY KEY,
		airport_code NVARCHAR(16) NOT NULL
	)`,
	`IF OBJECT_ID('Dim_Date', 'U') IS NULL CREATE TABLE Dim_Date (
		date_sk BIGINT PRIMARY KEY,
		date    DATE NOT NULL,
		year    INT NOT NULL,
		month   INT NOT NULL,
		day     INT NOT NULL,
		weekday NVARCHAR(16) NOT NULL
	)`,
	`IF OBJECT_ID('Fact_Flight', 'U') IS NULL CREATE TABLE Fact_Flight (
		flight_sk              INT IDENTITY(1,1) PRIMARY KEY,
		passenger_sk           INT NOT NULL REFERENCES Dim_Passenger(passenger_sk),
		airline_sk             INT NOT NULL REFERENCES Dim_Airline(airline_sk),
		origin_airport_sk      INT NOT NULL REFERENCES Dim_Airport(airport_sk),
		destination_airport_sk INT NOT NULL REFERENCES Dim_Airport(airport_sk),
		date_sk                BIGINT NOT NULL REFERENCES Dim_Date(date_sk),
		flight_number          NVARCHAR(16),
		aircraft_type          NVARCHAR(64),
		cabin_class            NVARCHAR(32),
		seat                   NVARCHAR(8),
		sales_channel          NVARCHAR(32),
		payment_method         NVARCHAR(32),
		status                 NVARCHAR(32),
		departure_ts           DATETIME2 NOT NULL,
		arrival_ts             DATETIME2,
		duration_min           INT NOT NULL,
		delay_min              INT NOT NULL,
		price_estimate         FLOAT,
		bags_total             INT NOT NULL,
		bags_checked           INT NOT NULL
	)`,
}
