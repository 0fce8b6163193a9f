package affordability

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteScheduleCSV writes the schedule with a header row.
func WriteScheduleCSV(w io.Writer, rows []ScheduleRow) error {
	cw := csv.NewWriter(w)

	header := []string{
		"month",
		"payment",
		"interest",
		"principal",
		"balance",
		"cumulative_interest",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Month),
			fmtFloat(r.Payment),
			fmtFloat(r.Interest),
			fmtFloat(r.Principal),
			fmtFloat(r.Balance),
			fmtFloat(r.CumulativeInterest),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
