// Package parsers reads bulk score uploads. Each data row is
// player_id, score and an optional unix timestamp; a leading header row is
// skipped.
package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Row is one parsed upload line. Err is set when the line could not be parsed;
// the other fields are then unreliable.
type Row struct {
	Line      int
	PlayerID  uuid.UUID
	Score     uint64
	Timestamp int64
	HasTime   bool
	Err       error
}

// Parser turns an uploaded file into rows.
type Parser interface {
	Parse(data []byte) ([]Row, error)
}

// Factory picks a parser from the upload's file name.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the parser for filename's extension.
func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := ""
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = strings.ToLower(filename[idx:])
	}

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx", "":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// parseRecords converts raw cells into rows, skipping blank lines and a header.
func parseRecords(records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if isBlank(record) {
			continue
		}
		if len(rows) == 0 && isHeader(record) {
			continue
		}
		rows = append(rows, parseRecord(i+1, record))
	}
	return rows
}

func parseRecord(line int, record []string) Row {
	row := Row{Line: line}
	if len(record) < 2 {
		row.Err = fmt.Errorf("line %d: expected player_id and score", line)
		return row
	}

	id, err := uuid.Parse(strings.TrimSpace(record[0]))
	if err != nil {
		row.Err = fmt.Errorf("line %d: invalid player id %q", line, record[0])
		return row
	}
	row.PlayerID = id

	score, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 64)
	if err != nil {
		row.Err = fmt.Errorf("line %d: invalid score %q", line, record[1])
		return row
	}
	row.Score = score

	if len(record) > 2 {
		if raw := strings.TrimSpace(record[2]); raw != "" {
			ts, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				row.Err = fmt.Errorf("line %d: invalid timestamp %q", line, record[2])
				return row
			}
			row.Timestamp = ts
			row.HasTime = true
		}
	}
	return row
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isHeader(record []string) bool {
	_, err := uuid.Parse(strings.TrimSpace(record[0]))
	return err != nil && strings.Contains(strings.ToLower(record[0]), "player")
}
