// Package urlsource reads video URLs from a spreadsheet CSV export.
package urlsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ytharvest/internal/services"
)

const component = "urlsource"

// LoadCSV returns the trimmed, non-empty, de-duplicated values of column in
// first-seen order. A UTF-8 or UTF-16 byte order mark is tolerated. A missing
// file or column is a configuration error.
func LoadCSV(path, column string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "open", path, err)
	}
	defer file.Close()

	urls, err := Read(file, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return urls, nil
}

// Read parses CSV data from r. See LoadCSV.
func Read(r io.Reader, column string) ([]string, error) {
	column = strings.TrimSpace(column)
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, services.Wrap(services.ErrConfiguration, component, "read header", "file is empty", nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, component, "read header", "", err)
	}

	index := -1
	found := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		found = append(found, name)
		if index < 0 && name == column {
			index = i
		}
	}
	if index < 0 {
		return nil, services.Wrap(services.ErrConfiguration, component, "find column",
			fmt.Sprintf("CSV must contain a %q column; found [%s]", column, strings.Join(found, ", ")), nil)
	}

	var urls []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, component, "read row", "", err)
		}
		if index >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[index]); value != "" {
			urls = append(urls, value)
		}
	}
	return Dedupe(urls), nil
}

// Dedupe removes exact duplicates while keeping the first occurrence of each value.
func Dedupe(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
