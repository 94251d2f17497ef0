package model

// Prayer is one of the five daily canonical prayers.
type Prayer string

const (
	Fajr    Prayer = "Fajr"
	Dhuhr   Prayer = "Dhuhr"
	Asr     Prayer = "Asr"
	Maghrib Prayer = "Maghrib"
	Isha    Prayer = "Isha"
)

// Prayers lists the schedulable prayers in day order. Sunrise is not a prayer.
var Prayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DefaultDurations is the pause length in minutes used when a zone leaves a prayer unset.
var DefaultDurations = map[Prayer]int{
	Fajr:    15,
	Dhuhr:   20,
	Asr:     15,
	Maghrib: 15,
	Isha:    20,
}

// ParsePrayer matches a configured prayer name exactly ("Fajr", "Dhuhr", ...).
func ParsePrayer(name string) (Prayer, bool) {
	for _, p := range Prayers {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// PrayerTiming holds the local "HH:MM" time of day of each prayer for one zone and date.
type PrayerTiming struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise,omitempty"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// For returns the time of day for p, or "" when unknown.
func (t PrayerTiming) For(p Prayer) string {
	switch p {
	case Fajr:
		return t.Fajr
	case Dhuhr:
		return t.Dhuhr
	case Asr:
		return t.Asr
	case Maghrib:
		return t.Maghrib
	case Isha:
		return t.Isha
	}
	return ""
}

// DayTiming is one day of a provider month calendar. Date is YYYY-MM-DD.
type DayTiming struct {
	Date    string
	Timings PrayerTiming
}
