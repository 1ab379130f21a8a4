package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/harrier/pkg/domain/interfaces"
)

// ImportResult reports the outcome of one CSV import. Bad rows are
// counted, never fatal.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// Importer ingests malware and phishing records from CSV uploads
type Importer struct {
	malware *Malware
	phish   *Phish
}

// NewImporter creates the CSV importer
func NewImporter(repo interfaces.Repository) *Importer {
	return &Importer{
		malware: NewMalware(repo),
		phish:   NewPhish(repo),
	}
}

// readCSV reads the whole upload into memory and returns one map per data
// row, keyed by the lowercased header names. A UTF-8 BOM on the first
// header cell is stripped.
func readCSV(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read csv upload")
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read csv header")
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed line: skip, the caller counts what it received
			continue
		}
		row := map[string]string{}
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// pick returns the first non-empty column value. Exports from older
// tooling label the date and event columns `date` and `event`, so those
// aliases are accepted with the canonical name winning.
func pick(row map[string]string, names ...string) string {
	for _, name := range names {
		if row[name] != "" {
			return row[name]
		}
	}
	return ""
}

// ImportMalwareCSV ingests rows with columns: name (required), family,
// description, occurrence_date (alias: date), event_id (alias: event).
// Rows without a name count as failures; unparseable dates become nil on
// otherwise valid rows.
func (uc *Importer) ImportMalwareCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		input := MalwareInput{
			Name:           row["name"],
			Family:         row["family"],
			Description:    row["description"],
			OccurrenceDate: pick(row, "occurrence_date", "date"),
			EventID:        pick(row, "event_id", "event"),
		}
		if _, err := uc.malware.Create(ctx, input); err != nil {
			ctxlog.From(ctx).Warn("skipping malware csv row", "error", err)
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportPhishCSV ingests rows with columns: subject (required), sender,
// target, description, risk_level, occurrence_date (alias: date),
// event_id (alias: event).
func (uc *Importer) ImportPhishCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, row := range rows {
		input := PhishInput{
			Subject:        row["subject"],
			Sender:         row["sender"],
			Target:         row["target"],
			Description:    row["description"],
			RiskLevel:      row["risk_level"],
			OccurrenceDate: pick(row, "occurrence_date", "date"),
			EventID:        pick(row, "event_id", "event"),
		}
		if _, err := uc.phish.Create(ctx, input); err != nil {
			ctxlog.From(ctx).Warn("skipping phish csv row", "error", err)
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}
