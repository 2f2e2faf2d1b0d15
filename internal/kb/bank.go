// File path: internal/kb/bank.go
package kb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadTestBank reads the historical test bank CSV. The header must carry the
// four bank columns; any other columns are ignored.
func LoadTestBank(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("test bank is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read test bank header: %w", err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range []string{ColumnSlNo, ColumnDescription, ColumnSteps, ColumnExpected} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("test bank missing columns: %s", strings.Join(missing, ", "))
	}
	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read test bank line %d: %w", line, err)
		}
		row := Row{
			SlNo:           field(record, ColumnSlNo),
			Description:    field(record, ColumnDescription),
			ExecutionSteps: field(record, ColumnSteps),
			ExpectedResult: field(record, ColumnExpected),
		}
		if row == (Row{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
