package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "ELECTSTATS"

// Config represents the complete application configuration
type Config struct {
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Fetch         FetchConfig         `yaml:"fetch" envconfig:"FETCH"`
	Processing    ProcessingConfig    `yaml:"processing" envconfig:"PROCESSING"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
	Layouts       []LayoutConfig      `yaml:"layouts" ignored:"true" validate:"dive"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration. Empty
// subdirectories are placed under DataDir.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ResultsDir string `yaml:"results_dir" envconfig:"RESULTS_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// FetchConfig controls downloads of results files.
//
// URL templates are text/template strings over the fields Year,
// Electorate, VoteType, Name and Initial.
type FetchConfig struct {
	URLTemplate          string        `yaml:"url_template" envconfig:"URL_TEMPLATE" validate:"required"`
	URLTemplate1999      string        `yaml:"url_template_1999" envconfig:"URL_TEMPLATE_1999" validate:"required"`
	UserAgent            string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	Timeout              time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RequestsPerSecond    float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" validate:"gt=0"`
	Burst                int           `yaml:"burst" envconfig:"BURST" validate:"min=1"`
	VoteType             string        `yaml:"vote_type" envconfig:"VOTE_TYPE" validate:"required"`
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches" envconfig:"MAX_CONCURRENT_FETCHES" validate:"min=1"`
}

// ProcessingConfig controls parsing and national aggregation.
type ProcessingConfig struct {
	Workers         int               `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	ContinueOnError bool              `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR"`
	Format          string            `yaml:"format" envconfig:"FORMAT" validate:"oneof=auto csv xlsx"`
	MajorParties    []string          `yaml:"major_parties" envconfig:"MAJOR_PARTIES" validate:"min=1"`
	ExtraLabels     map[string]string `yaml:"extra_labels" envconfig:"EXTRA_LABELS"`
}

// ObservabilityConfig controls tracing and the metrics textfile.
type ObservabilityConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// LayoutConfig describes an extra per-year results file layout. Category
// names use the lower-case snake form, e.g. "party_only".
type LayoutConfig struct {
	Year               int      `yaml:"year" validate:"min=1990"`
	HasHeader          bool     `yaml:"has_header"`
	TrailingColumns    int      `yaml:"trailing_columns" validate:"min=0"`
	NameTrailingTokens int      `yaml:"name_trailing_tokens" validate:"min=0"`
	PartiesOnNameLine  bool     `yaml:"parties_on_name_line"`
	TitleCaseName      bool     `yaml:"title_case_name"`
	AbsentCategories   []string `yaml:"absent_categories"`
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence. An empty path
// searches the usual locations and skips the file stage when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"electstats.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/electstats.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
		},
		Fetch: FetchConfig{
			URLTemplate:          DefaultURLTemplate,
			URLTemplate1999:      DefaultURLTemplate1999,
			UserAgent:            AppName + "/" + AppVersion,
			Timeout:              DefaultHTTPTimeout,
			RequestsPerSecond:    DefaultRequestsPerSecond,
			Burst:                DefaultBurstSize,
			VoteType:             DefaultVoteType,
			MaxConcurrentFetches: 4,
		},
		Processing: ProcessingConfig{
			Workers:      DefaultWorkers,
			Format:       "auto",
			MajorParties: append([]string(nil), MajorParties...),
		},
		Observability: ObservabilityConfig{
			ServiceName:   AppName,
			TraceExporter: "none",
			SampleRatio:   1,
		},
	}
}
