package kythe

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"io"
	"log/slog"
)

// EmitFunc receives one fully accumulated logical record. Returning an error
// aborts the scan.
type EmitFunc func(*Record) error

// Decode reads a newline-delimited Kythe fact stream from r and calls emit
// once per logical record, in stream order. Malformed lines and fact values
// that fail base64 decoding are logged at Warn and skipped; they never abort
// the scan. Empty lines are skipped silently.
func Decode(r io.Reader, log *slog.Logger, emit EmitFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	current := newRecord()
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		wl, err := parseLine(line)
		if err != nil {
			log.Warn("kythe: dropping malformed record line", slog.String("error", err.Error()))
			continue
		}

		if wl.FactValue != nil {
			decoded, err := base64.StdEncoding.DecodeString(*wl.FactValue)
			if err != nil {
				log.Warn("kythe: dropping fact with invalid base64 value",
					slog.String("fact_name", wl.FactName), slog.String("error", err.Error()))
				wl.FactValue = nil
			} else {
				s := string(decoded)
				wl.FactValue = &s
			}
		}

		if !current.empty() && !current.appendable(wl) {
			if err := emit(current); err != nil {
				return err
			}
			current.clear()
		}
		current.append(wl)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if !current.empty() {
		return emit(current)
	}
	return nil
}

