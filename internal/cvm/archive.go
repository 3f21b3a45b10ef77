package cvm

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"fundflow/internal/flow"
)

// Informe CSV columns used by the pipeline. The files are ';'-separated and
// Latin-1 encoded.
const (
	colFundClass = "TP_FUNDO_CLASSE"
	colFundCNPJ  = "CNPJ_FUNDO_CLASSE"
	colDate      = "DT_COMPTC"
	colSubs      = "CAPTC_DIA"
	colRedeems   = "RESG_DIA"
)

// fundClassFI selects investment funds; every other class is out of scope
const fundClassFI = "FI"

// ParseInformeArchive decodes one monthly informe zip into raw flow records.
//
// Rows of other fund classes are skipped. Rows with an unparseable
// competence date are kept with a zero Date so the aggregator can count the
// drop; rows with non-numeric amounts are kept with FlowValid false. Only a
// structurally unreadable archive is an error.
func ParseInformeArchive(ctx context.Context, data []byte, logger *slog.Logger) ([]flow.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open informe zip: %w", err)
	}

	var records []flow.Record
	parsed := false
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".csv") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
		}
		entry, err := parseInformeCSV(ctx, rc, f.Name, logger)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.Name, err)
		}

		records = append(records, entry...)
		parsed = true
	}

	if !parsed {
		return nil, fmt.Errorf("informe zip contains no CSV entry")
	}
	return records, nil
}

// parseInformeCSV reads one Latin-1, ';'-separated informe CSV stream
func parseInformeCSV(ctx context.Context, r io.Reader, name string, logger *slog.Logger) ([]flow.Record, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.TrimSpace(col)] = i
	}
	for _, col := range []string{colFundClass, colFundCNPJ, colDate, colSubs, colRedeems} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}

	var records []flow.Record
	skippedClass := 0
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.WarnContext(ctx, "skipping malformed informe row",
				slog.String("file", name),
				slog.Int("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}

		if field(row, idx[colFundClass]) != fundClassFI {
			skippedClass++
			continue
		}

		rec := flow.Record{
			FundID: flow.NormalizeFundID(field(row, idx[colFundCNPJ])),
		}

		if d, err := time.Parse("2006-01-02", field(row, idx[colDate])); err == nil {
			rec.Date = d
		}

		subs, subsErr := strconv.ParseFloat(field(row, idx[colSubs]), 64)
		redeems, redeemsErr := strconv.ParseFloat(field(row, idx[colRedeems]), 64)
		if subsErr == nil && redeemsErr == nil {
			rec.NetFlow = subs - redeems
			rec.FlowValid = true
		}

		records = append(records, rec)
	}

	logger.InfoContext(ctx, "parsed informe CSV",
		slog.String("file", name),
		slog.Int("records", len(records)),
		slog.Int("skipped_other_class", skippedClass),
	)

	return records, nil
}

// field returns a trimmed column value, tolerating short rows
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
