package generator

import "strconv"

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}

func parseIntKey(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFloatKey(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
