package checks

import (
	"fmt"

	"diffing-research/core/database"

	"gorm.io/gorm"
)

// SchemaReport strictly types the result of a schema check.
type SchemaReport struct {
	Table          string            `json:"table"`
	Matched        bool              `json:"matched"`
	Exists         bool              `json:"exists"`
	MissingColumns []string          `json:"missing_columns"`
	Columns        map[string]string `json:"columns"`
}

// CheckSchema verifies that table holds every required column.
func CheckSchema(db *gorm.DB, table string, required []string) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	actual, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}

	report := &SchemaReport{
		Table:          table,
		Exists:         len(actual) > 0,
		MissingColumns: []string{},
		Columns:        make(map[string]string, len(actual)),
	}
	for _, col := range actual {
		report.Columns[col.Field] = col.Type
	}
	for _, name := range required {
		if _, ok := report.Columns[name]; !ok {
			report.MissingColumns = append(report.MissingColumns, name)
		}
	}
	report.Matched = report.Exists && len(report.MissingColumns) == 0

	return report, nil
}
