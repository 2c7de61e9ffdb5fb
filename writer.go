package loopprof

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// A Symbolizer resolves static addresses to functions and source locations.
// bininfo.BinFile implements it.
type Symbolizer interface {
	PCToFunc(pc uint64) (string, error)
	PCToLine(pc uint64) (string, int, error)
}

// A MetricsWriter is an interface for writing tables.
type MetricsWriter interface {
	SetHeader(headers []string)
	Append(record []string)
	Render()
}

// A CSVWriter is a MetricsWriter that outputs the information in CSV format.
type CSVWriter struct {
	*csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to the given output writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		Writer: csv.NewWriter(w),
	}
}

// SetHeader adds a table header.
func (c *CSVWriter) SetHeader(headers []string) {
	c.Writer.Write(headers)
}

// Append creates a new row in the table.
func (c *CSVWriter) Append(record []string) {
	c.Writer.Write(record)
}

// Render flushes the table content to the writer.
func (c *CSVWriter) Render() {
	c.Writer.Flush()
}

// Render writes the profile with one row per loop call-site. Addresses are
// shown relocated back to their static values. With a non-nil symbolizer,
// function and source location columns are added; loops the symbolizer
// cannot resolve show "?" rather than failing the whole table.
func (p *Profile) Render(w MetricsWriter, sym Symbolizer) {
	header := []string{"address", "read-mpki", "write-mpki"}
	if sym != nil {
		header = append(header, "function", "location")
	}
	w.SetHeader(header)

	for _, rec := range p.Records {
		addr := p.StaticAddr(rec)
		row := []string{
			fmt.Sprintf("0x%x", addr),
			fmt.Sprintf("%.4f", rec.ReadMPKI),
			fmt.Sprintf("%.4f", rec.WriteMPKI),
		}
		if sym != nil {
			fn, err := sym.PCToFunc(addr)
			if err != nil {
				fn = "?"
			}
			loc := "?"
			if file, line, err := sym.PCToLine(addr); err == nil {
				loc = fmt.Sprintf("%s:%d", file, line)
			}
			row = append(row, fn, loc)
		}
		w.Append(row)
	}

	w.Render()
}

// NewTableWriter creates a MetricsWriter that writes a pretty-printed ASCII
// table.
func NewTableWriter(w io.Writer) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}
