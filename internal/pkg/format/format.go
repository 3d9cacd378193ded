// Package format holds the pure presentation formatters shared by the
// report payloads. Dates are always rendered from calendar components,
// never time-of-day.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var jaPrinter = message.NewPrinter(language.Japanese)

// ClientName renders "name（department）", or just the name when the
// client has no department.
func ClientName(name, department string) string {
	if department == "" {
		return name
	}
	return fmt.Sprintf("%s（%s）", name, department)
}

// Date renders "YYYY/MM/DD", with a placeholder dash for absent dates.
func Date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006/01/02")
}

// ContractPeriod renders "YY/MM〜YY/MM" for both interval endpoints.
func ContractPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s〜%s", start.Format("06/01"), end.Format("06/01"))
}

// PlanWithPrice renders "name（N円/月）" with grouped thousands, dividing
// the annual price by 12 and rounding half-up. A zero or absent price
// yields just the plan name.
func PlanWithPrice(name string, annualPrice int64) string {
	if annualPrice == 0 {
		return name
	}
	monthly := int64(math.Round(float64(annualPrice) / 12))
	return jaPrinter.Sprintf("%s（%d円/月）", name, monthly)
}

// Yen renders an amount as "¥N" with grouped thousands.
func Yen(amount int64) string {
	return jaPrinter.Sprintf("¥%d", amount)
}
