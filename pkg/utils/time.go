package utils

import "time"

// seoul is the display timezone for all operator-facing timestamps.
// Falls back to a fixed KST offset when tzdata is unavailable.
var seoul = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}()

// NowSeoul returns the current time formatted for notification headers,
// e.g. "2026-08-31 21:00:05".
func NowSeoul() string {
	return time.Now().In(seoul).Format("2006-01-02 15:04:05")
}

// TodaySeoul returns today's date in Seoul as YYYYMMDD, the format the
// purchase-history search expects.
func TodaySeoul() string {
	return time.Now().In(seoul).Format("20060102")
}
