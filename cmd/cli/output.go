package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

const (
	dayLayout      = "2006-01-02"
	dayTimeLayout  = "2006-01-02 15:04"
	displayLayout  = "Jan 2, 2006"
	displayWithMin = "Jan 2, 2006 15:04"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	return tw
}

func parseDay(v string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", v)
	}
	return t, nil
}

func parseDayTime(v string) (time.Time, error) {
	t, err := time.ParseInLocation(dayTimeLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be \"YYYY-MM-DD HH:MM\"", v)
	}
	return t, nil
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayLayout)
}

func formatDayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(displayWithMin)
}
