package model

// Prayer names usable as dynamic break anchors.
const (
	PrayerFajr    = "fajr"
	PrayerDhuhr   = "dhuhr"
	PrayerAsr     = "asr"
	PrayerMaghrib = "maghrib"
	PrayerIsha    = "isha"
)

// PrayerTimes holds the daily prayer clock times for one city. Rows are
// supplied by an external batch collaborator; the engine only reads them.
type PrayerTimes struct {
	ID                string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	City              string `json:"city" bson:"city" validate:"required,min=2,max=50"`
	Date              string `json:"date" bson:"date" validate:"required,calendar_date"`
	Fajr              string `json:"fajr" bson:"fajr" validate:"required,clock"`
	Dhuhr             string `json:"dhuhr" bson:"dhuhr" validate:"required,clock"`
	Asr               string `json:"asr" bson:"asr" validate:"required,clock"`
	Maghrib           string `json:"maghrib" bson:"maghrib" validate:"required,clock"`
	Isha              string `json:"isha" bson:"isha" validate:"required,clock"`
	CalculationMethod string `json:"calculation_method" bson:"calculation_method" validate:"required,min=2,max=50"`
}

// TimeFor returns the clock time of the named prayer, or "" for an unknown
// name.
func (p *PrayerTimes) TimeFor(prayer string) string {
	switch prayer {
	case PrayerFajr:
		return p.Fajr
	case PrayerDhuhr:
		return p.Dhuhr
	case PrayerAsr:
		return p.Asr
	case PrayerMaghrib:
		return p.Maghrib
	case PrayerIsha:
		return p.Isha
	}
	return ""
}
