// Package registry loads the CVM fund registry (cad_fi) and answers
// CNPJ-to-display-name lookups for report enrichment.
package registry

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"fundflow/internal/flow"
)

const (
	colCNPJ = "CNPJ_FUNDO"
	colName = "DENOM_SOCIAL"
)

// Registry maps normalized fund CNPJs to display names
type Registry struct {
	names map[string]string
}

// New creates an empty registry
func New() *Registry {
	return &Registry{names: make(map[string]string)}
}

// Add registers a fund name under its normalized CNPJ. The registry file
// repeats CNPJs across share classes; the first name wins.
func (r *Registry) Add(cnpj, name string) {
	id := flow.NormalizeFundID(cnpj)
	if id == "" || name == "" {
		return
	}
	if _, ok := r.names[id]; !ok {
		r.names[id] = name
	}
}

// Lookup returns the display name for a normalized fund id
func (r *Registry) Lookup(id string) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Len returns the number of distinct funds in the registry
func (r *Registry) Len() int {
	return len(r.names)
}

// Parse reads the cad_fi CSV (';'-separated, Latin-1) into a Registry.
// Rows without a CNPJ or a name are skipped silently; they cannot enrich
// anything.
func Parse(ctx context.Context, rd io.Reader, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(rd))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read registry header: %w", err)
	}

	cnpjIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case colCNPJ:
			cnpjIdx = i
		case colName:
			nameIdx = i
		}
	}
	if cnpjIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("registry header missing %s or %s", colCNPJ, colName)
	}

	reg := New()
	rows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.WarnContext(ctx, "skipping malformed registry row",
				slog.String("error", err.Error()))
			continue
		}
		rows++

		if cnpjIdx >= len(row) || nameIdx >= len(row) {
			continue
		}
		reg.Add(row[cnpjIdx], strings.TrimSpace(row[nameIdx]))
	}

	logger.InfoContext(ctx, "loaded fund registry",
		slog.Int("rows", rows),
		slog.Int("funds", reg.Len()),
	)

	return reg, nil
}
