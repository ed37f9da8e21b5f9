// Package roster loads recipient lists from CSV files.
package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Recipient is one row of the roster. Email may be empty for match-only
// workflows; the send path rejects it there.
type Recipient struct {
	Name  string
	Email string
}

// Load reads a roster CSV. The first column is the recipient name, the
// second (optional) the email address. A header row naming a "name" column
// is skipped, as is a UTF-8 BOM on the first cell and any row whose name is
// blank. Returns the recipients and the number of skipped blank rows.
func Load(path string) ([]Recipient, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening roster: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // rows may or may not carry an email column

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("reading roster: %w", err)
	}

	var recipients []Recipient
	skipped := 0
	for i, record := range records {
		if len(record) == 0 {
			continue
		}

		name := strings.TrimSpace(record[0])
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
			if isHeader(name) {
				continue
			}
		}
		if name == "" {
			skipped++
			continue
		}

		r := Recipient{Name: name}
		if len(record) > 1 {
			r.Email = strings.TrimSpace(record[1])
		}
		recipients = append(recipients, r)
	}

	return recipients, skipped, nil
}

func isHeader(firstCell string) bool {
	switch strings.ToLower(firstCell) {
	case "name", "recipient", "full name", "fullname":
		return true
	}
	return false
}
