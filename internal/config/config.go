package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "proposalradar/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PipelineConfig locates the source and the outputs of a run
type PipelineConfig struct {
	BaseDir        string `yaml:"base_dir" envconfig:"BASE_DIR"`
	InputPath      string `yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	OutputPath     string `yaml:"output_path" envconfig:"OUTPUT_PATH" validate:"required"`
	SummaryCSVPath string `yaml:"summary_csv_path" envconfig:"SUMMARY_CSV_PATH"`
	Delimiter      string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required,csvdelim"`
	Sheet          string `yaml:"sheet" envconfig:"SHEET"`
	GeneratedAt    string `yaml:"generated_at" envconfig:"GENERATED_AT" validate:"required"`
	DryRun         bool   `yaml:"dry_run" envconfig:"DRY_RUN"`
}

// ColumnsConfig maps the logical proposal fields onto header names
type ColumnsConfig struct {
	Party     string `yaml:"party" envconfig:"PARTY" validate:"required"`
	Dimension string `yaml:"dimension" envconfig:"DIMENSION" validate:"required"`
	Category  string `yaml:"category" envconfig:"CATEGORY" validate:"required"`
	Quote     string `yaml:"quote" envconfig:"QUOTE" validate:"required"`
	Maturity  string `yaml:"maturity" envconfig:"MATURITY" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig controls tracing and metrics export
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=EnableTracing true"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, the YAML file and the
// environment, in that order. An empty configFile checks the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not accessible", configFile), err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	// Env vars win over the file; fields without a variable are left alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.resolveBaseDir(); err != nil {
		return nil, apperrors.NewConfigError("failed to resolve base directory", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// resolveBaseDir pins an empty base directory to the working directory
func (c *Config) resolveBaseDir() error {
	if c.Pipeline.BaseDir != "" {
		return nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	c.Pipeline.BaseDir = wd
	return nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", describeValidation(err))
	}
	return nil
}

// newValidator returns a validator reporting yaml key names
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("csvdelim", isCSVDelimiter)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// isCSVDelimiter accepts a single rune that encoding/csv can use as a separator
func isCSVDelimiter(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError
}

// describeValidation flattens validator errors into one readable error
func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", key, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", key, fe.Tag()))
		}
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// getConfigFilePath returns the first config file found, or ""
func getConfigFilePath() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			InputPath:   DefaultInputPath,
			OutputPath:  DefaultOutputPath,
			Delimiter:   ",",
			GeneratedAt: DefaultGeneratedAt,
		},
		Columns: ColumnsConfig{
			Party:     DefaultPartyColumn,
			Dimension: DefaultDimensionColumn,
			Category:  DefaultCategoryColumn,
			Quote:     DefaultQuoteColumn,
			Maturity:  DefaultMaturityColumn,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "proposal-radar",
			SampleRatio: 1.0,
		},
	}
}
