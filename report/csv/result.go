package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/glbter/distributed-systems/advisor/entities"
)

var header = []string{"trial", "cumulative_return"}

// WriteResult writes one row per trial, in trial order.
func WriteResult(w io.Writer, res entities.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, r := range res.Returns {
		if err := cw.Write([]string{strconv.Itoa(i), strconv.FormatFloat(r, 'g', -1, 64)}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteResultFile(filePath string, res entities.SimulationResult) error {
	f, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if err := WriteResult(f, res); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadResult reads rows written by WriteResult.
func ReadResult(r io.Reader) (entities.SimulationResult, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return entities.SimulationResult{}, err
	}
	if len(records) == 0 {
		return entities.SimulationResult{}, fmt.Errorf("empty result file")
	}

	returns := make([]float64, 0, len(records)-1)
	for i, line := range records[1:] {
		if len(line) != len(header) {
			return entities.SimulationResult{}, fmt.Errorf("line %d: want %d fields, got %d", i+2, len(header), len(line))
		}
		v, err := strconv.ParseFloat(line[1], 64)
		if err != nil {
			return entities.SimulationResult{}, fmt.Errorf("line %d: %w", i+2, err)
		}
		returns = append(returns, v)
	}

	return entities.SimulationResult{Returns: returns}, nil
}

func ReadResultFile(filePath string) (entities.SimulationResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return entities.SimulationResult{}, err
	}
	defer f.Close()

	return ReadResult(f)
}
