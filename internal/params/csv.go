package params

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// ReadCSV parses a header row followed by data rows. Column names are trimmed
// and canonicalized with CanonicalField. Values are kept as raw strings for Validate.
func ReadCSV(r io.Reader) (Input, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Input{}, &ReadError{Err: errors.New("input is empty")}
	}
	if err != nil {
		return Input{}, &ReadError{Err: err}
	}

	names := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, raw := range header {
		if i == 0 {
			raw = strings.TrimPrefix(raw, utf8BOM)
		}
		name := CanonicalField(strings.TrimSpace(raw))
		if _, dup := seen[name]; dup {
			return Input{}, &ReadError{Err: fmt.Errorf("duplicate column %q", name)}
		}
		seen[name] = struct{}{}
		names[i] = name
	}

	in := Input{Header: names}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Input{}, &ReadError{Err: err}
		}
		rec := make(Record, len(names))
		for i, name := range names {
			rec[name] = strings.TrimSpace(row[i])
		}
		in.Records = append(in.Records, rec)
	}

	return in, nil
}
