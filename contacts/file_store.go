package contacts

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankithreddys/orchestrai/internal/fsstore"
	"gopkg.in/yaml.v3"
)

var csvHeader = []string{"first_name", "last_name", "name", "email", "phone"}

func loadFile(path string) ([]Contact, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("contacts: empty directory path")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return loadJSON(path)
	}
}

func loadJSON(path string) ([]Contact, error) {
	var rows []Contact
	found, err := fsstore.ReadJSON(path, &rows)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	out := make([]Contact, 0, len(rows))
	for _, row := range rows {
		if c, ok := sanitizeRow(row); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func loadYAML(path string) ([]Contact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("contacts: open %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var rows []Contact
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("contacts: parse %s: %w", path, err)
	}
	out := make([]Contact, 0, len(rows))
	for _, row := range rows {
		if c, ok := sanitizeRow(row); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func loadCSV(path string) ([]Contact, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("contacts: open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("contacts: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	out := make([]Contact, 0, len(records)-1)
	for _, row := range records[1:] {
		c := Contact{
			FirstName: cell(row, "first_name"),
			LastName:  cell(row, "last_name"),
			Name:      cell(row, "name"),
			Email:     cell(row, "email"),
			Phone:     cell(row, "phone"),
		}
		if sanitized, ok := sanitizeRow(c); ok {
			out = append(out, sanitized)
		}
	}
	return out, nil
}

// sanitizeRow trims fields, splits a legacy combined name into
// first/last when those are absent, and drops rows without a usable
// name or valid email.
func sanitizeRow(c Contact) (Contact, bool) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	legacy := strings.TrimSpace(c.Name)

	if c.FirstName == "" && c.LastName == "" && legacy != "" {
		tokens := strings.Fields(legacy)
		switch {
		case len(tokens) >= 2:
			c.FirstName = tokens[0]
			c.LastName = strings.Join(tokens[1:], " ")
		case len(tokens) == 1:
			c.FirstName = tokens[0]
		}
	}
	c.Name = c.FullName()

	if c.FirstName == "" && c.LastName == "" {
		return Contact{}, false
	}
	if !IsValidEmail(c.Email) {
		return Contact{}, false
	}
	return c, true
}

// appendToFile re-reads the file under a lock so concurrent CLI
// processes do not clobber each other's writes, appends the new row and
// writes the whole file atomically.
func appendToFile(ctx context.Context, path string, c Contact) error {
	lockPath := path + ".lck"
	return fsstore.WithLock(ctx, lockPath, func() error {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			return appendCSV(path, c)
		case ".yaml", ".yml":
			return appendYAML(path, c)
		default:
			return appendJSON(path, c)
		}
	})
}

func appendYAML(path string, c Contact) error {
	existing, err := loadYAML(path)
	if err != nil {
		return err
	}
	existing = append(existing, c)
	data, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("contacts: encode %s: %w", path, err)
	}
	return fsstore.WriteAtomic(path, data)
}

func appendJSON(path string, c Contact) error {
	var rows []Contact
	if _, err := fsstore.ReadJSON(path, &rows); err != nil {
		return err
	}
	rows = append(rows, c)
	return fsstore.WriteJSONAtomic(path, rows)
}

func appendCSV(path string, c Contact) error {
	existing, err := loadCSV(path)
	if err != nil {
		return err
	}
	existing = append(existing, c)

	var b strings.Builder
	writer := csv.NewWriter(&b)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("contacts: write %s: %w", path, err)
	}
	for _, row := range existing {
		record := []string{row.FirstName, row.LastName, row.FullName(), row.Email, row.Phone}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("contacts: write %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("contacts: write %s: %w", path, err)
	}
	return fsstore.WriteAtomic(path, []byte(b.String()))
}
