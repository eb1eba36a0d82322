package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/nicosim/internal/sim"
)

// WriteCSV writes the trace points as CSV with a header row.
func WriteCSV(w io.Writer, points []sim.TracePoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"t", "da", "gaba", "nic", "desens_total", "puff"}); err != nil {
		return err
	}
	for _, pt := range points {
		row := []string{
			strconv.FormatFloat(pt.T, 'f', 6, 64),
			strconv.FormatFloat(pt.DA, 'f', 6, 64),
			strconv.FormatFloat(pt.GABA, 'f', 6, 64),
			strconv.FormatFloat(pt.Nic, 'f', 6, 64),
			strconv.FormatFloat(pt.DesensTotal, 'f', 6, 64),
			strconv.FormatBool(pt.Puff),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the trace to a new file at path.
func WriteCSVFile(path string, points []sim.TracePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, points)
}
