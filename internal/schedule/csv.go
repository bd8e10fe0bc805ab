package schedule

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a schedule with one firing per row. The header must name a
// "task" and a "time" column; other columns are ignored. A task keeps the
// position of its first row.
func LoadCSV(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %s is empty (no header row)", path)
	}

	taskCol, timeCol := -1, -1
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "task":
			taskCol = i
		case "time":
			timeCol = i
		}
	}
	if taskCol < 0 || timeCol < 0 {
		return nil, fmt.Errorf("csv: %s header must contain \"task\" and \"time\" columns", path)
	}

	doc := &Document{Schedule: New()}
	for i, record := range records[1:] {
		name := strings.TrimSpace(record[taskCol])
		if name == "" {
			return nil, fmt.Errorf("csv: row %d has an empty task name", i+2)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv: row %d: invalid time %q", i+2, record[timeCol])
		}
		doc.Schedule.Append(name, t)
	}
	return doc, nil
}
