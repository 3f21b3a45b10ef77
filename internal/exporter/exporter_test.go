package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fundflow/internal/report"
)

func sampleRows() []report.Row {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return []report.Row{
		{FundName: "FUNDO DE AÇÕES ALFA", FundID: "111", Date: date,
			NetFlow: -20.456, Sum30: 30, Sum90: 130.1, Sum180: 130.1},
		{FundName: "FUNDO BETA", FundID: "222", Date: date,
			NetFlow: 5, Sum30: 5, Sum90: 5, Sum180: 5},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "captacao.csv")
	require.NoError(t, WriteCSV(path, sampleRows()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"), "missing UTF-8 BOM")
	assert.Contains(t, content, "Nome_Fundo,Data,Captacao_Liquida_Diaria")
	assert.Contains(t, content, "FUNDO DE AÇÕES ALFA,01/02/2024,-20.46,30.00,130.10,130.10")
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captacao.xlsx")
	require.NoError(t, WriteWorkbook(path, sampleRows()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "FUNDO DE AÇÕES ALFA", name)

	date, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "01/02/2024", date)

	// amounts keep full precision in the workbook
	net, err := f.GetCellValue(sheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "-20.456", net)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, WriteWorkbook(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Nome_Fundo", header)
}

func TestWritePDF(t *testing.T) {
	t.Run("writes a parseable PDF", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "captacao.pdf")
		require.NoError(t, WritePDF(path, sampleRows(), DefaultRowsPerPage))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
	})

	t.Run("paginates long reports", func(t *testing.T) {
		rows := make([]report.Row, 0, 40)
		for i := 0; i < 40; i++ {
			rows = append(rows, sampleRows()[0])
		}

		path := filepath.Join(t.TempDir(), "paged.pdf")
		require.NoError(t, WritePDF(path, rows, 18))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		// 40 rows at 18 per page is 3 pages
		assert.Contains(t, string(data), "/Count 3")
	})

	t.Run("empty report still yields a document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.pdf")
		require.NoError(t, WritePDF(path, nil, 0))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13.4, "13.40"},
		{-20.456, "-20.46"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.in))
	}
}
