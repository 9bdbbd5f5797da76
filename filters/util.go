package filters

import (
	"strconv"

	"github.com/pkg/errors"
)

func isErr(err, target error) bool { return errors.Is(err, target) }

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func floatStr(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func intStr(i int) string {
	return strconv.Itoa(i)
}

func parseFloat(s string) (float32, bool) {
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func parseInt(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
