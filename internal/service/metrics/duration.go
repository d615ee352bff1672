package metrics

// Duration returns the hours between two time cells. An end before the start
// is an overnight shift and wraps by 24 hours. A missing side yields 0.
func Duration(start, end string) float64 {
	return HoursBetween(ParseHours(start), ParseHours(end))
}

// HoursBetween is Duration over already-normalised hour values.
func HoursBetween(start, end float64) float64 {
	if start == 0 || end == 0 {
		return 0
	}
	d := end - start
	if d < 0 {
		d += 24
	}
	if d < 0 {
		return 0
	}
	return d
}
