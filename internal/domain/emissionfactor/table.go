package emissionfactor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed factors.yaml
var defaultFactors []byte

type document struct {
	Factors []Factor `yaml:"factors"`
}

// Table is an in-memory reference table. It is immutable after loading and
// safe for concurrent use.
type Table struct{ rows []Factor }

var _ Repository = (*Table)(nil)

func NewTable(rows []Factor) *Table {
	cp := make([]Factor, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// DefaultTable returns the built-in reference factors.
func DefaultTable() (*Table, error) { return LoadTable(bytes.NewReader(defaultFactors)) }

func LoadTable(r io.Reader) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode emission factors: %w", err)
	}
	for i, f := range doc.Factors {
		if f.VehicleCategory == "" || f.FuelType == "" {
			return nil, fmt.Errorf("emission factor %d: vehicle_category and fuel_type are required", i)
		}
		if f.PerKm() < 0 {
			return nil, fmt.Errorf("emission factor %d: negative factor", i)
		}
	}
	return NewTable(doc.Factors), nil
}

// LoadTableFile reads a YAML table from path, or the built-in one when path is empty.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTable(f)
}

func (t *Table) Lookup(_ context.Context, q Query) (*Factor, error) {
	f, ok := Best(t.rows, q)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoMatch, q.VehicleCategory, q.FuelType)
	}
	return f, nil
}

func (t *Table) All(_ context.Context) ([]Factor, error) {
	cp := make([]Factor, len(t.rows))
	copy(cp, t.rows)
	return cp, nil
}
