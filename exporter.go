package ukf

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exporter defines an export interface.
type Exporter interface {
	Write(Estimate) error
	Close() error
}

// CSVExporter writes one line per estimate: the timestamp, the sensor, every state
// component followed by its +2σ and -2σ bounds, and the NIS.
type CSVExporter struct {
	delimiter string
	hdlr      io.Writer
}

// Close writes the closing date and closes the underlying writer if it is an io.Closer.
func (e CSVExporter) Close() (err error) {
	err = e.WriteRawLn(fmt.Sprintf("# Closing date (UTC): %s", time.Now().UTC()))
	if err != nil {
		return
	}
	if c, ok := e.hdlr.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Write writes the estimate to the CSV file.
func (e CSVExporter) Write(est Estimate) error {
	r := est.State().Len()
	vals := make([]string, 2, r*3+3)
	vals[0] = fmt.Sprintf("%d", est.Timestamp())
	vals[1] = est.Sensor().String()
	for i := 0; i < r; i++ {
		covar := 2 * math.Sqrt(est.Covariance().At(i, i))
		vals = append(vals, fmt.Sprintf("%f", est.State().AtVec(i)), fmt.Sprintf("%f", covar), fmt.Sprintf("%f", -1*covar))
	}
	vals = append(vals, fmt.Sprintf("%f", est.NIS()))
	return e.WriteRawLn(strings.Join(vals, e.delimiter))
}

// WriteRawLn writes a raw line to the CSV file.
func (e CSVExporter) WriteRawLn(s string) error {
	_, err := io.WriteString(e.hdlr, s+"\n")
	return err
}

// NewCSVExporter creates the file dir/filename and initializes a new CSV export into it.
func NewCSVExporter(headers []string, dir, filename string) (*CSVExporter, error) {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	e, err := NewCSVWriter(headers, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return e, nil
}

// NewCSVWriter initializes a new CSV export into w. The headers name the state components.
func NewCSVWriter(headers []string, w io.Writer) (*CSVExporter, error) {
	delimiter := ","
	// Header
	hdr := make([]string, 2, len(headers)*3+3)
	hdr[0], hdr[1] = "timestamp", "sensor"
	for _, h := range headers {
		hdr = append(hdr, h, h+"+2s", h+"-2s")
	}
	hdr = append(hdr, "nis")
	e := &CSVExporter{delimiter, w}
	if err := e.WriteRawLn(fmt.Sprintf("# Creation date (UTC): %s\n%s", time.Now().UTC(), strings.Join(hdr, delimiter))); err != nil {
		return nil, err
	}
	return e, nil
}
