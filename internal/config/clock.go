package config

import "time"

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// defaultStartYear is the calendar year a bundle without start_year begins.
func defaultStartYear() int { return nowFunc().Year() }
