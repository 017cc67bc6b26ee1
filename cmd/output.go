package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"rada-console/pkg/models"
)

// printJSON writes v to stdout, indented, and exits on failure.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Printf("Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func newTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = 48
	tbl.Separator = "   "
	tbl.AddRow(header...)
	return tbl
}

var stateColors = map[models.EventState]*color.Color{
	models.StateStart:   color.New(color.FgYellow),
	models.StateOngoing: color.New(color.FgCyan),
	models.StatePeak:    color.New(color.FgRed, color.Bold),
	models.StateEnd:     color.New(color.FgGreen),
}

// stateBadge renders an event state the way the console badges do.
func stateBadge(state models.EventState) string {
	if c, ok := stateColors[state]; ok {
		return c.Sprint(string(state))
	}
	return string(state)
}

func formatTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func formatOptionalTime(ts *models.Timestamp) string {
	if ts == nil {
		return "-"
	}
	return formatTime(*ts)
}
