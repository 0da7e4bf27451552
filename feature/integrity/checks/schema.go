package checks

import (
	"fmt"
	"reflect"
	"strings"

	"watchstate/core/database"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the schema check result of one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// ModelColumns returns the table name and the column names declared by a gorm model.
// Only fields with an explicit column tag are considered.
func ModelColumns(model any) (string, []string, error) {
	typ := reflect.TypeOf(model)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model %T is not a struct", model)
	}

	tabler, ok := reflect.New(typ).Interface().(interface{ TableName() string })
	if !ok {
		return "", nil, fmt.Errorf("model %s does not implement TableName", typ.Name())
	}

	var columns []string
	for i := 0; i < typ.NumField(); i++ {
		if col := parseGormColumn(typ.Field(i).Tag.Get("gorm")); col != "" {
			columns = append(columns, col)
		}
	}
	return tabler.TableName(), columns, nil
}

// CheckSchema verifies that every model's table has the columns its struct declares.
func CheckSchema(db *gorm.DB, models ...any) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range models {
		table, columns, err := ModelColumns(model)
		if err != nil {
			return nil, err
		}

		missing, err := database.MissingColumns(db, table, columns)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		if len(missing) > 0 {
			tbl.MissingColumns = missing
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}
