// Package rating derives fishing-quality labels from weather readings.
//
// Two independent schemes exist: the threshold banding used for forecast
// rows, and a weighted 0-100 score used for live current-conditions updates.
// They produce different label vocabularies and are deliberately not
// reconciled.
package rating

import (
	"database/sql"
	"strings"
)

// Base categories produced by the wind-speed banding.
const (
	BaseGreat    = "Great Fishing"
	BaseGood     = "Good Fishing"
	BaseTough    = "Tough Fishing"
	BaseStayHome = "Stay Home No Fishing"
)

// Thresholds is the five-band wind table plus the modifier cutoffs. Built
// once at startup and treated as immutable.
type Thresholds struct {
	WindGreat   float64 // mph, at or below is great
	WindGoodMin float64
	WindGoodMax float64
	WindBadMin  float64
	WindBadMax  float64
	GustGusty   float64 // mph, strictly above is gusty
	TempColdMax float64 // °F, strictly below is cold
	TempHotMin  float64 // °F, strictly above is too hot
	Pressure    float64 // inHg, strictly below is low pressure
}

// DefaultThresholds returns the stock banding table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		WindGreat:   5,
		WindGoodMin: 6,
		WindGoodMax: 8,
		WindBadMin:  9,
		WindBadMax:  10,
		GustGusty:   15,
		TempColdMax: 50,
		TempHotMin:  85,
		Pressure:    29.92,
	}
}

// Conditions are the inputs to the threshold scheme. Any field may be
// absent; absent wind produces no base category.
type Conditions struct {
	WindSpeed sql.NullFloat64 // mph
	WindGust  sql.NullFloat64 // mph
	Temp      sql.NullFloat64 // °F
	Pressure  sql.NullFloat64 // inHg
}

// Rate maps conditions to a base category and the full composite label.
//
// The bands are checked in fixed order, first match wins. Speeds falling in
// the gap between WindGoodMax and WindBadMin, and speeds above WindBadMax,
// both land on the final else and rate "Stay Home No Fishing". That is the
// authored behavior of the banding table, not an accident to smooth over.
func (t Thresholds) Rate(c Conditions) (base, label string) {
	switch {
	case !c.WindSpeed.Valid:
		base = ""
	case c.WindSpeed.Float64 <= t.WindGreat:
		base = BaseGreat
	case c.WindSpeed.Float64 >= t.WindGoodMin && c.WindSpeed.Float64 <= t.WindGoodMax:
		base = BaseGood
	case c.WindSpeed.Float64 >= t.WindBadMin && c.WindSpeed.Float64 <= t.WindBadMax:
		base = BaseTough
	default:
		base = BaseStayHome
	}

	// Modifier notes in fixed order: gust, temperature, pressure.
	var notes []string
	if c.WindGust.Valid && c.WindGust.Float64 > t.GustGusty {
		notes = append(notes, "Gusty")
	}
	if c.Temp.Valid {
		switch {
		case c.Temp.Float64 < t.TempColdMax:
			notes = append(notes, "Cold")
		case c.Temp.Float64 > t.TempHotMin:
			notes = append(notes, "Too Hot")
		default:
			notes = append(notes, "Comfortable Temp")
		}
	}
	if c.Pressure.Valid {
		if c.Pressure.Float64 < t.Pressure {
			notes = append(notes, "Low Pressure")
		} else {
			notes = append(notes, "High Pressure")
		}
	}

	joined := strings.Join(notes, ", ")
	if base == "" {
		return base, joined
	}
	return base, base + " (" + joined + ")"
}

// Score computes the weighted live-update composite on a 0-100 scale. Wind
// carries 60%, temperature 15%, pressure 10%. The weights sum to 85% as
// authored; the remaining 15% is simply never awarded.
func Score(windSpeed, temp, pressure float64) float64 {
	var windScore float64
	switch {
	case windSpeed <= 4:
		windScore = 100
	case windSpeed <= 6:
		windScore = 80
	case windSpeed <= 8:
		windScore = 60
	case windSpeed <= 10:
		windScore = 40
	default:
		windScore = 20
	}

	var tempScore float64
	switch {
	case temp >= 50 && temp <= 75:
		tempScore = 100
	case temp >= 40 && temp <= 85:
		tempScore = 80
	default:
		tempScore = 60
	}

	var pressureScore float64
	switch {
	case pressure < 29.8:
		pressureScore = 100 // falling glass stirs fish activity
	case pressure <= 30.2:
		pressureScore = 80
	default:
		pressureScore = 60
	}

	return windScore*0.6 + tempScore*0.15 + pressureScore*0.1
}

// ScoreLabel bands a composite score into its named tier.
func ScoreLabel(score float64) string {
	switch {
	case score >= 90:
		return "Excellent Fishing"
	case score >= 80:
		return "Great Fishing"
	case score >= 70:
		return "Good Fishing"
	case score >= 60:
		return "Fair Fishing"
	case score >= 50:
		return "Moderate Fishing"
	default:
		return "Poor Fishing"
	}
}

// RateByScore is the live-update rating: Score banded by ScoreLabel.
func RateByScore(windSpeed, temp, pressure float64) string {
	return ScoreLabel(Score(windSpeed, temp, pressure))
}
