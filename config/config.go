package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Image     string          `mapstructure:"image"`
	Log       LogConfig       `mapstructure:"log"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Output    OutputConfig    `mapstructure:"output"`
	Targets   []TargetConfig  `mapstructure:"targets"`
	Groups    []RuleConfig    `mapstructure:"groups"`
	Bands     []RuleConfig    `mapstructure:"bands"`
	Text      TextConfig      `mapstructure:"text"`
	Threshold ThresholdConfig `mapstructure:"threshold"`
	SVG       SVGConfig       `mapstructure:"svg"`
	OCR       OCRConfig       `mapstructure:"ocr"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type AnalysisConfig struct {
	MaxWidth    int `mapstructure:"max_width"`
	Parallel    int `mapstructure:"parallel"`
	TopColors   int `mapstructure:"top_colors"`
	PaletteSize int `mapstructure:"palette_size"`
}

type OutputConfig struct {
	Report string `mapstructure:"report"`
	Text   string `mapstructure:"text"`
	SVG    string `mapstructure:"svg"`
}

// TargetConfig 以十六进制书写颜色，如 "#001D37"
type TargetConfig struct {
	Name       string `mapstructure:"name"`
	Color      string `mapstructure:"color"`
	Tolerance  int    `mapstructure:"tolerance"`
	Background bool   `mapstructure:"background"`
}

// RuleConfig 的通道区间写作 [min, max]，缺省为 [0, 255]
type RuleConfig struct {
	Name        string  `mapstructure:"name"`
	R           []int   `mapstructure:"r"`
	G           []int   `mapstructure:"g"`
	B           []int   `mapstructure:"b"`
	Compare     string  `mapstructure:"compare"`
	MinFraction float64 `mapstructure:"min_fraction"`
}

type TextConfig struct {
	RowStep        int        `mapstructure:"row_step"`
	MinTransitions int        `mapstructure:"min_transitions"`
	Dark           RuleConfig `mapstructure:"dark"`
}

type ThresholdConfig struct {
	SolidFillRatio float64 `mapstructure:"solid_fill_ratio"`
	AspectRatio    float64 `mapstructure:"aspect_ratio"`
}

type SVGConfig struct {
	Title string `mapstructure:"title"`
	Trace bool   `mapstructure:"trace"`
}

type OCRConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Language string `mapstructure:"language"`
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 列表类配置不走 viper 默认值，未设置时补全
	def := getDefaultConfig()
	if !v.IsSet("targets") {
		cfg.Targets = def.Targets
	}
	if !v.IsSet("groups") {
		cfg.Groups = def.Groups
	}
	if !v.IsSet("bands") {
		cfg.Bands = def.Bands
	}
	if !v.IsSet("text.dark") {
		cfg.Text.Dark = def.Text.Dark
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New 使用给定路径加载配置，文件不可用时返回默认配置
func New(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Default 返回内置默认配置
func Default() *Config {
	return getDefaultConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("image", "public/new-logo.jpg")
	v.SetDefault("log.mode", "debug")

	v.SetDefault("analysis.max_width", 0)
	v.SetDefault("analysis.parallel", 4)
	v.SetDefault("analysis.top_colors", 15)
	v.SetDefault("analysis.palette_size", 4)

	v.SetDefault("output.report", "logo-analysis-report.json")
	v.SetDefault("output.text", "logo-structure-analysis.txt")
	v.SetDefault("output.svg", "public/new-logo.svg")

	v.SetDefault("text.row_step", 10)
	v.SetDefault("text.min_transitions", 5)

	v.SetDefault("threshold.solid_fill_ratio", 0.6)
	v.SetDefault("threshold.aspect_ratio", 1.5)

	v.SetDefault("svg.title", "Logo - Vectorized")
	v.SetDefault("svg.trace", false)

	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.language", "eng")
}

func getDefaultConfig() *Config {
	return &Config{
		Image: "public/new-logo.jpg",
		Log:   LogConfig{Mode: "debug"},
		Analysis: AnalysisConfig{
			MaxWidth:    0,
			Parallel:    4,
			TopColors:   15,
			PaletteSize: 4,
		},
		Output: OutputConfig{
			Report: "logo-analysis-report.json",
			Text:   "logo-structure-analysis.txt",
			SVG:    "public/new-logo.svg",
		},
		Targets: []TargetConfig{
			{Name: "white", Color: "#FFFFFF", Tolerance: 30, Background: true},
			{Name: "navy", Color: "#001D37", Tolerance: 35},
			{Name: "orange", Color: "#FF6300", Tolerance: 30},
		},
		Groups: []RuleConfig{
			{Name: "White/Near-White", R: []int{251, 255}, G: []int{251, 255}, B: []int{251, 255}},
			{Name: "Dark Navy Blue", R: []int{0, 9}, G: []int{0, 49}, B: []int{0, 69}, Compare: "b>g"},
			{Name: "Orange/Red", R: []int{201, 255}, G: []int{51, 149}, B: []int{0, 49}},
		},
		Bands: []RuleConfig{
			{Name: "white", R: []int{241, 255}, G: []int{241, 255}, B: []int{241, 255}, MinFraction: 0.5},
			{Name: "navy", R: []int{0, 9}, B: []int{31, 69}, MinFraction: 0.1},
			{Name: "orange", R: []int{201, 255}, G: []int{0, 149}, B: []int{0, 49}, MinFraction: 0.05},
		},
		Text: TextConfig{
			RowStep:        10,
			MinTransitions: 5,
			Dark:           RuleConfig{Name: "dark", R: []int{0, 49}, B: []int{21, 255}},
		},
		Threshold: ThresholdConfig{
			SolidFillRatio: 0.6,
			AspectRatio:    1.5,
		},
		SVG: SVGConfig{Title: "Logo - Vectorized"},
		OCR: OCRConfig{Enabled: true, Language: "eng"},
	}
}
