package dateutil

// Horizon returns every calendar year of a projection, ascending: startYear
// through startYear + (endAge - currentAge). An inverted horizon is empty.
func Horizon(startYear, currentAge, endAge int) []int {
	span := endAge - currentAge
	if span < 0 {
		return nil
	}
	years := make([]int, 0, span+1)
	for i := 0; i <= span; i++ {
		years = append(years, startYear+i)
	}
	return years
}

// LastYear returns the final calendar year of a projection.
func LastYear(startYear, currentAge, endAge int) int {
	return startYear + (endAge - currentAge)
}

// YearsSince returns the number of whole years from startYear to year.
func YearsSince(startYear, year int) int {
	return year - startYear
}

// AgeInYear returns the age reached during year for someone aged
// currentAge in startYear.
func AgeInYear(currentAge, startYear, year int) int {
	return currentAge + (year - startYear)
}
