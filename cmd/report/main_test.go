package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInformeZip(t *testing.T, dir, month, csvContent string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("inf_diario_fi_" + month + ".csv")
	require.NoError(t, err)
	_, err = w.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, "inf_diario_fi_"+month+".zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

const informeHeader = "TP_FUNDO_CLASSE;CNPJ_FUNDO_CLASSE;DT_COMPTC;CAPTC_DIA;RESG_DIA\n"

func TestLoadInformes(t *testing.T) {
	ctx := context.Background()

	t.Run("reads every archive in the directory", func(t *testing.T) {
		dir := t.TempDir()
		writeInformeZip(t, dir, "202401", informeHeader+"FI;111;2024-01-02;10;0\n")
		writeInformeZip(t, dir, "202402", informeHeader+"FI;111;2024-02-02;20;5\n")

		records, err := loadInformes(ctx, dir, nil)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		_, err := loadInformes(ctx, t.TempDir(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "run the fetcher first")
	})
}

func TestLoadRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the downloaded registry", func(t *testing.T) {
		dir := t.TempDir()
		csv := "CNPJ_FUNDO;DENOM_SOCIAL\n111;FUNDO ALFA\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cad_fi.csv"), []byte(csv), 0644))

		names, err := loadRegistry(ctx, dir, nil)
		require.NoError(t, err)

		name, ok := names.Lookup("111")
		require.True(t, ok)
		assert.Equal(t, "FUNDO ALFA", name)
	})

	t.Run("missing registry is an error", func(t *testing.T) {
		_, err := loadRegistry(ctx, t.TempDir(), nil)
		require.Error(t, err)
	})
}
