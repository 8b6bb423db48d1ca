package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Data describes the dataset layout: which CSV columns the rest of the
// application is allowed to touch and how they are typed.
type Data struct {
	Filename           string   `mapstructure:"filename" yaml:"filename"`
	IDColumn           string   `mapstructure:"id_column" yaml:"id_column"`
	TargetColumn       string   `mapstructure:"target_column" yaml:"target_column"`
	CategoricalColumns []string `mapstructure:"categorical_columns" yaml:"categorical_columns"`
	NumericalColumns   []string `mapstructure:"numerical_columns" yaml:"numerical_columns"`
	ServiceColumns     []string `mapstructure:"service_columns" yaml:"service_columns"`
}

// Model holds classifier hyperparameters.
type Model struct {
	Target      string  `mapstructure:"target" yaml:"target"`
	TestSize    float64 `mapstructure:"test_size" yaml:"test_size"`
	RandomState int64   `mapstructure:"random_state" yaml:"random_state"`
	NEstimators int     `mapstructure:"n_estimators" yaml:"n_estimators"`
	MaxDepth    int     `mapstructure:"max_depth" yaml:"max_depth"`
	ClassWeight string  `mapstructure:"class_weight" yaml:"class_weight"`
}

// Cluster holds segmentation parameters.
type Cluster struct {
	DefaultK        int      `mapstructure:"default_k" yaml:"default_k"`
	MinK            int      `mapstructure:"min_k" yaml:"min_k"`
	MaxK            int      `mapstructure:"max_k" yaml:"max_k"`
	DefaultFeatures []string `mapstructure:"default_features" yaml:"default_features"`
}

// Visualization holds chart theming shared by every chart builder.
type Visualization struct {
	ColorScheme          []string `mapstructure:"color_scheme" yaml:"color_scheme"`
	ChartTheme           string   `mapstructure:"chart_theme" yaml:"chart_theme"`
	CategoricalPalette   []string `mapstructure:"categorical_palette" yaml:"categorical_palette"`
	CorrelationColorsLow string   `mapstructure:"correlation_color_low" yaml:"correlation_color_low"`
	CorrelationColorsHi  string   `mapstructure:"correlation_color_high" yaml:"correlation_color_high"`
}

// Server holds dashboard HTTP settings.
type Server struct {
	Addr              string `mapstructure:"addr" yaml:"addr"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// Settings is the full application configuration.
type Settings struct {
	Data          Data          `mapstructure:"data" yaml:"data"`
	Model         Model         `mapstructure:"model" yaml:"model"`
	Cluster       Cluster       `mapstructure:"cluster" yaml:"cluster"`
	Visualization Visualization `mapstructure:"visualization" yaml:"visualization"`
	Server        Server        `mapstructure:"server" yaml:"server"`
}

// Default returns the built-in configuration, used when no config file is
// present or the file cannot be read.
func Default() *Settings {
	return &Settings{
		Data: Data{
			Filename:     "customer_churn.csv",
			IDColumn:     "CustomerID",
			TargetColumn: "Churn",
			CategoricalColumns: []string{
				"ContractType", "InternetService", "PaymentMethod",
				"StreamingTV", "StreamingMovies", "PhoneService", "Gender",
			},
			NumericalColumns: []string{
				"Tenure", "MonthlyCharges", "TotalCharges", "SatisfactionScore",
			},
			ServiceColumns: []string{
				"PhoneService", "InternetService", "StreamingTV", "StreamingMovies",
			},
		},
		Model: Model{
			Target:      "Churn",
			TestSize:    0.2,
			RandomState: 42,
			NEstimators: 100,
			MaxDepth:    10,
			ClassWeight: "balanced",
		},
		Cluster: Cluster{
			DefaultK:        3,
			MinK:            2,
			MaxK:            6,
			DefaultFeatures: []string{"Tenure", "MonthlyCharges", "SatisfactionScore"},
		},
		Visualization: Visualization{
			ColorScheme:          []string{"#2ecc71", "#e74c3c", "#3498db"},
			ChartTheme:           "light",
			CategoricalPalette:   []string{"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462"},
			CorrelationColorsLow: "#2166ac",
			CorrelationColorsHi:  "#b2182b",
		},
		Server: Server{
			Addr:              ":8080",
			RequestTimeoutSec: 30,
		},
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ./churnai.yaml in the working directory.
func Save(s *Settings, cfgFile string) error {
	path := cfgFile
	if path == "" {
		path = "churnai.yaml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing or unreadable config
// file is not an error; callers fall back to the defaults silently and the
// cmd layer prints a warning.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("CHURNAI")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("data.filename", def.Data.Filename)
	v.SetDefault("data.id_column", def.Data.IDColumn)
	v.SetDefault("data.target_column", def.Data.TargetColumn)
	v.SetDefault("data.categorical_columns", def.Data.CategoricalColumns)
	v.SetDefault("data.numerical_columns", def.Data.NumericalColumns)
	v.SetDefault("data.service_columns", def.Data.ServiceColumns)
	v.SetDefault("model.target", def.Model.Target)
	v.SetDefault("model.test_size", def.Model.TestSize)
	v.SetDefault("model.random_state", def.Model.RandomState)
	v.SetDefault("model.n_estimators", def.Model.NEstimators)
	v.SetDefault("model.max_depth", def.Model.MaxDepth)
	v.SetDefault("model.class_weight", def.Model.ClassWeight)
	v.SetDefault("cluster.default_k", def.Cluster.DefaultK)
	v.SetDefault("cluster.min_k", def.Cluster.MinK)
	v.SetDefault("cluster.max_k", def.Cluster.MaxK)
	v.SetDefault("cluster.default_features", def.Cluster.DefaultFeatures)
	v.SetDefault("visualization.color_scheme", def.Visualization.ColorScheme)
	v.SetDefault("visualization.chart_theme", def.Visualization.ChartTheme)
	v.SetDefault("visualization.categorical_palette", def.Visualization.CategoricalPalette)
	v.SetDefault("visualization.correlation_color_low", def.Visualization.CorrelationColorsLow)
	v.SetDefault("visualization.correlation_color_high", def.Visualization.CorrelationColorsHi)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.request_timeout_sec", def.Server.RequestTimeoutSec)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("churnai")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects configurations the rest of the application cannot work
// with: every column list must be non-empty, categorical and numerical
// columns must not overlap, and the id/target columns must be named.
func (s *Settings) Validate() error {
	if s.Data.IDColumn == "" {
		return fmt.Errorf("config: data.id_column is required")
	}
	if s.Data.TargetColumn == "" {
		return fmt.Errorf("config: data.target_column is required")
	}
	if len(s.Data.CategoricalColumns) == 0 {
		return fmt.Errorf("config: data.categorical_columns must not be empty")
	}
	if len(s.Data.NumericalColumns) == 0 {
		return fmt.Errorf("config: data.numerical_columns must not be empty")
	}
	seen := make(map[string]bool, len(s.Data.CategoricalColumns))
	for _, c := range s.Data.CategoricalColumns {
		seen[c] = true
	}
	for _, c := range s.Data.NumericalColumns {
		if seen[c] {
			return fmt.Errorf("config: column %q declared both categorical and numerical", c)
		}
	}
	if s.Model.TestSize <= 0 || s.Model.TestSize >= 1 {
		return fmt.Errorf("config: model.test_size must be in (0,1), got %v", s.Model.TestSize)
	}
	if s.Cluster.MinK < 1 || s.Cluster.MaxK < s.Cluster.MinK {
		return fmt.Errorf("config: cluster.min_k/max_k range is invalid (%d..%d)", s.Cluster.MinK, s.Cluster.MaxK)
	}
	return nil
}
