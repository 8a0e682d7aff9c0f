package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all module configuration.
type Config struct {
	AWS   AWSConfig
	OCR   OCRConfig
	Table TableConfig
	Log   LogConfig
}

// AWSConfig holds AWS client settings shared by S3 and Textract.
type AWSConfig struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// OCRConfig holds text-acquisition settings.
type OCRConfig struct {
	Engine   string `mapstructure:"engine"` // "textract" | "tesseract"
	MaxPages int    `mapstructure:"max_pages"`
	Language string `mapstructure:"language"`

	// Local strategy tooling. Empty binary names resolve via PATH.
	Pdftoppm    string `mapstructure:"pdftoppm"`
	TessdataDir string `mapstructure:"tessdata_dir"`
	RasterDPI   int    `mapstructure:"raster_dpi"`
}

// TableConfig holds fuzzy table parsing thresholds.
type TableConfig struct {
	HeaderSimilarityMin float64 `mapstructure:"header_similarity_min"`
	MinPlausibleAmount  float64 `mapstructure:"min_plausible_amount"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from environment variables with the COISCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COISCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AWS defaults
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.bucket", "")
	v.SetDefault("aws.endpoint", "")

	// OCR defaults
	v.SetDefault("ocr.engine", "textract")
	v.SetDefault("ocr.max_pages", 3)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tessdata_dir", "")
	// 144 dpi doubles the 72 dpi PDF baseline, the scale the form
	// heuristics were tuned at.
	v.SetDefault("ocr.raster_dpi", 144)

	// Table defaults
	v.SetDefault("table.header_similarity_min", 0.55)
	v.SetDefault("table.min_plausible_amount", 100000)

	// Log defaults
	v.SetDefault("log.level", "info")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"aws.region":                  "COISCAN_AWS_REGION",
		"aws.bucket":                  "COISCAN_AWS_BUCKET",
		"aws.endpoint":                "COISCAN_AWS_ENDPOINT",
		"aws.access_key":              "COISCAN_AWS_ACCESS_KEY",
		"aws.secret_key":              "COISCAN_AWS_SECRET_KEY",
		"ocr.engine":                  "COISCAN_OCR_ENGINE",
		"ocr.max_pages":               "COISCAN_OCR_MAX_PAGES",
		"ocr.language":                "COISCAN_OCR_LANGUAGE",
		"ocr.pdftoppm":                "COISCAN_OCR_PDFTOPPM",
		"ocr.tessdata_dir":            "COISCAN_OCR_TESSDATA_DIR",
		"ocr.raster_dpi":              "COISCAN_OCR_RASTER_DPI",
		"table.header_similarity_min": "COISCAN_TABLE_HEADER_SIMILARITY_MIN",
		"table.min_plausible_amount":  "COISCAN_TABLE_MIN_PLAUSIBLE_AMOUNT",
		"log.level":                   "COISCAN_LOG_LEVEL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.AWS = AWSConfig{
		Region:    v.GetString("aws.region"),
		Bucket:    v.GetString("aws.bucket"),
		Endpoint:  v.GetString("aws.endpoint"),
		AccessKey: v.GetString("aws.access_key"),
		SecretKey: v.GetString("aws.secret_key"),
	}
	cfg.OCR = OCRConfig{
		Engine:      v.GetString("ocr.engine"),
		MaxPages:    v.GetInt("ocr.max_pages"),
		Language:    v.GetString("ocr.language"),
		Pdftoppm:    v.GetString("ocr.pdftoppm"),
		TessdataDir: v.GetString("ocr.tessdata_dir"),
		RasterDPI:   v.GetInt("ocr.raster_dpi"),
	}
	cfg.Table = TableConfig{
		HeaderSimilarityMin: v.GetFloat64("table.header_similarity_min"),
		MinPlausibleAmount:  v.GetFloat64("table.min_plausible_amount"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	return cfg, nil
}
