package ingest

import "database/sql"

func ptr[T any](v T) *T { return &v }

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func celsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

func fahrenheitToCelsius(f float64) float64 { return (f - 32) * 5 / 9 }
