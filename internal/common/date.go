package common

import "time"

func GetDate() string {
	return GetDateFromTime(time.Now().UTC())
}

func GetDateFromTime(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysBetween is inclusive of the start day; a one-week flight returns 7.
func DaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
