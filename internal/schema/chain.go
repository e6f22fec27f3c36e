package schema

import (
	"flightdw/internal/transformer"
	"flightdw/internal/transformer/builtin"
)

// upperColumns are the identifier/categorical fields forced upper-case during
// normalization. Names and nationalities keep their source casing here; the
// passenger dimension upper-cases nationality at insert time.
var upperColumns = []string{
	ColAirlineCode, ColFlightNumber,
	ColOriginAirport, ColDestinationAirport,
	ColStatus, ColAircraftType, ColCabinClass, ColSeat,
	ColSalesChannel, ColPaymentMethod,
}

// plainColumns go through sentinel-to-null normalization without case change.
var plainColumns = []string{
	ColAirlineName, ColPassengerID, ColPassengerNat, ColRecordID,
}

// TransformChain builds the full raw-to-warehouse transform chain. Applying
// it to a batch is deterministic: the age mean is computed once over the
// whole batch before any row is filled, so the same input always yields the
// same output.
func TransformChain(dayFirst bool) transformer.Chain {
	return transformer.Chain{
		builtin.Normalize{Fields: plainColumns, Upper: upperColumns},
		builtin.Dates{
			Fields:   []string{ColDepartureDatetime, ColArrivalDatetime},
			DayFirst: dayFirst,
		},
		builtin.Gender{Field: ColPassengerGender},
		builtin.Price{Field: ColTicketPrice},
		builtin.ImputeAge{Field: ColPassengerAge},
		builtin.FillZero{
			Fields: []string{ColDurationMin, ColDelayMin, ColBagsTotal, ColBagsChecked},
		},
	}
}
