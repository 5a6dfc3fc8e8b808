package catalog

var monthNumbers = map[string]int{
	"enero":      1,
	"febrero":    2,
	"marzo":      3,
	"abril":      4,
	"mayo":       5,
	"junio":      6,
	"julio":      7,
	"agosto":     8,
	"septiembre": 9,
	"octubre":    10,
	"noviembre":  11,
	"diciembre":  12,
}

var monthNames = func() [13]string {
	var out [13]string
	for name, n := range monthNumbers {
		out[n] = name
	}
	return out
}()

// MonthNumber resolves a Spanish month name (any case) to 1..12.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNumbers[NormalizeTitle(name)]
	return n, ok
}

// MonthName is the inverse of MonthNumber.
func MonthName(n int) (string, bool) {
	if n < 1 || n > 12 {
		return "", false
	}
	return monthNames[n], true
}
