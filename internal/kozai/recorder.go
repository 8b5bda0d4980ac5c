package kozai

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Recorder appends fixed-schema rows to a CSV sink. The file is opened in
// truncate mode once, the header written immediately, and every row is
// flushed as it is appended so an interrupted run never leaves a partial
// row. Undefined values appear as the NaN sentinel.
type Recorder struct {
	f    *os.File
	w    *csv.Writer
	rows int
}

func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("recorder: write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("recorder: write header: %w", err)
	}
	return &Recorder{f: f, w: w}, nil
}

// Append writes one record, flushed to the sink before returning.
func (r *Recorder) Append(rec Record) error {
	cols := rec.Columns()
	row := make([]string, len(cols))
	for i, v := range cols {
		row[i] = strconv.FormatFloat(v, 'f', 10, 64)
	}
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("recorder: write row %d: %w", r.rows, err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("recorder: write row %d: %w", r.rows, err)
	}
	r.rows++
	return nil
}

// Rows reports how many data rows have been written.
func (r *Recorder) Rows() int { return r.rows }

func (r *Recorder) Close() error {
	r.w.Flush()
	werr := r.w.Error()
	cerr := r.f.Close()
	if werr != nil {
		return fmt.Errorf("recorder: flush: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("recorder: close: %w", cerr)
	}
	return nil
}
