package postgresql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
)

type attendanceRecordRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRecordRepository(db *database.DB) attendance.RecordRepository {
	return &attendanceRecordRepositoryImpl{db: db}
}

// ListRows returns every uploaded row, oldest file first and in sheet order
// within a file.
func (r *attendanceRecordRepositoryImpl) ListRows(ctx context.Context) ([]attendance.Row, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT r.data
		FROM uploaded_rows r
		JOIN uploaded_files f ON f.id = r.file_id
		ORDER BY f.uploaded_at, f.id, r.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploaded rows: %w", err)
	}
	defer rows.Close()

	var result []attendance.Row
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan uploaded row: %w", err)
		}
		row, err := decodeRow(data)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating uploaded rows: %w", err)
	}

	return result, nil
}

// decodeRow turns a stored JSON object into string cells. Numbers keep their
// stored text so spreadsheet serials survive unchanged.
func decodeRow(data []byte) (attendance.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode uploaded row: %w", err)
	}

	row := make(attendance.Row, len(raw))
	for k, v := range raw {
		row[k] = cellString(v)
	}
	return row, nil
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
