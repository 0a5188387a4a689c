package models

import "fmt"

// TimeOfDay is a wall-clock hour and minute, used for the daily
// notification trigger.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// DefaultNotificationTime is used until the user picks a time.
var DefaultNotificationTime = TimeOfDay{Hour: 9, Minute: 0}

// Valid reports whether the value is a real wall-clock time.
func (t TimeOfDay) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
