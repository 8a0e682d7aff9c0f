package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coiscan/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Empty(t, cfg.AWS.Bucket)

	assert.Equal(t, "textract", cfg.OCR.Engine)
	assert.Equal(t, 3, cfg.OCR.MaxPages)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, "pdftoppm", cfg.OCR.Pdftoppm)
	assert.Equal(t, 144, cfg.OCR.RasterDPI)

	assert.Equal(t, 0.55, cfg.Table.HeaderSimilarityMin)
	assert.Equal(t, 100000.0, cfg.Table.MinPlausibleAmount)

	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COISCAN_AWS_REGION", "eu-west-1")
	t.Setenv("COISCAN_AWS_BUCKET", "coi-documents")
	t.Setenv("COISCAN_OCR_ENGINE", "tesseract")
	t.Setenv("COISCAN_OCR_MAX_PAGES", "5")
	t.Setenv("COISCAN_OCR_LANGUAGE", "deu")
	t.Setenv("COISCAN_TABLE_HEADER_SIMILARITY_MIN", "0.7")
	t.Setenv("COISCAN_TABLE_MIN_PLAUSIBLE_AMOUNT", "50000")
	t.Setenv("COISCAN_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "coi-documents", cfg.AWS.Bucket)
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, 5, cfg.OCR.MaxPages)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, 0.7, cfg.Table.HeaderSimilarityMin)
	assert.Equal(t, 50000.0, cfg.Table.MinPlausibleAmount)
	assert.Equal(t, "debug", cfg.Log.Level)
}
