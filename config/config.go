package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/chaos-io/vecmask/store"
	"github.com/chaos-io/vecmask/vectorizer"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Removal    RemovalConfig    `mapstructure:"removal"`
	Vectorizer VectorizerConfig `mapstructure:"vectorizer"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Batch      BatchConfig      `mapstructure:"batch"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxUpload    int64         `mapstructure:"max_upload"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RemovalConfig 背景移除参数
type RemovalConfig struct {
	Threshold      float64 `mapstructure:"threshold"`
	InvertMask     bool    `mapstructure:"invert_mask"`
	Scale          float64 `mapstructure:"scale"`
	SaveSVG        bool    `mapstructure:"save_svg"`
	FilenamePrefix string  `mapstructure:"filename_prefix"`
}

type VectorizerConfig struct {
	Backend            string        `mapstructure:"backend"` // api, local
	APIID              string        `mapstructure:"api_id"`
	APISecret          string        `mapstructure:"api_secret"`
	Endpoint           string        `mapstructure:"endpoint"`
	Mode               string        `mapstructure:"mode"`
	OutputFormat       string        `mapstructure:"output_format"`
	MaxColors          int           `mapstructure:"max_colors"`
	MinShapeArea       float64       `mapstructure:"min_shape_area"`
	AdobeCompatibility bool          `mapstructure:"adobe_compatibility"`
	DisableGapFiller   bool          `mapstructure:"disable_gap_filler"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxUploadSize      int           `mapstructure:"max_upload_size"`
	SaveSVG            bool          `mapstructure:"save_svg"`
	FilenamePrefix     string        `mapstructure:"filename_prefix"`
}

type StorageConfig struct {
	Backend     string         `mapstructure:"backend"` // local, s3
	OutputDir   string         `mapstructure:"output_dir"`
	Retention   time.Duration  `mapstructure:"retention"`
	CleanupCron string         `mapstructure:"cleanup_cron"`
	S3          store.S3Config `mapstructure:"s3"`
}

type BatchConfig struct {
	Workers int    `mapstructure:"workers"`
	Pattern string `mapstructure:"pattern"`
}

// Options 转换为矢量化请求参数
func (c VectorizerConfig) Options() vectorizer.Options {
	return vectorizer.Options{
		Mode:               c.Mode,
		Format:             vectorizer.FormatSVG,
		MaxColors:          c.MaxColors,
		MinShapeArea:       c.MinShapeArea,
		AdobeCompatibility: c.AdobeCompatibility,
		DisableGapFiller:   c.DisableGapFiller,
	}
}

func (c VectorizerConfig) Credentials() vectorizer.Credentials {
	return vectorizer.Credentials{ID: c.APIID, Secret: c.APISecret}
}

func (c RedisConfig) CacheConfig() vectorizer.RedisConfig {
	return vectorizer.RedisConfig{Addr: c.Addr, Password: c.Password, DB: c.DB, TTL: c.TTL}
}

// Load 从 YAML 文件加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VECMASK")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// New 使用默认配置路径加载配置，失败时返回默认配置
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if c.Removal.Threshold < 0 || c.Removal.Threshold > 1 {
		return fmt.Errorf("removal.threshold %v out of range [0, 1]", c.Removal.Threshold)
	}
	if c.Removal.Scale < 1 || c.Removal.Scale > 16 {
		return fmt.Errorf("removal.scale %v out of range [1, 16]", c.Removal.Scale)
	}
	switch c.Vectorizer.Backend {
	case "api", "local":
	default:
		return fmt.Errorf("unknown vectorizer backend %q", c.Vectorizer.Backend)
	}
	switch c.Vectorizer.OutputFormat {
	case "svg", "png", "scaled_png":
	default:
		return fmt.Errorf("unknown output format %q", c.Vectorizer.OutputFormat)
	}
	switch c.Storage.Backend {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be greater than 0")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_upload", d.Server.MaxUpload)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("removal.threshold", d.Removal.Threshold)
	v.SetDefault("removal.invert_mask", d.Removal.InvertMask)
	v.SetDefault("removal.scale", d.Removal.Scale)
	v.SetDefault("removal.save_svg", d.Removal.SaveSVG)
	v.SetDefault("removal.filename_prefix", d.Removal.FilenamePrefix)

	v.SetDefault("vectorizer.backend", d.Vectorizer.Backend)
	v.SetDefault("vectorizer.api_id", d.Vectorizer.APIID)
	v.SetDefault("vectorizer.api_secret", d.Vectorizer.APISecret)
	v.SetDefault("vectorizer.endpoint", d.Vectorizer.Endpoint)
	v.SetDefault("vectorizer.mode", d.Vectorizer.Mode)
	v.SetDefault("vectorizer.output_format", d.Vectorizer.OutputFormat)
	v.SetDefault("vectorizer.max_colors", d.Vectorizer.MaxColors)
	v.SetDefault("vectorizer.min_shape_area", d.Vectorizer.MinShapeArea)
	v.SetDefault("vectorizer.adobe_compatibility", d.Vectorizer.AdobeCompatibility)
	v.SetDefault("vectorizer.disable_gap_filler", d.Vectorizer.DisableGapFiller)
	v.SetDefault("vectorizer.timeout", d.Vectorizer.Timeout)
	v.SetDefault("vectorizer.max_upload_size", d.Vectorizer.MaxUploadSize)
	v.SetDefault("vectorizer.save_svg", d.Vectorizer.SaveSVG)
	v.SetDefault("vectorizer.filename_prefix", d.Vectorizer.FilenamePrefix)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.output_dir", d.Storage.OutputDir)
	v.SetDefault("storage.retention", d.Storage.Retention)
	v.SetDefault("storage.cleanup_cron", d.Storage.CleanupCron)

	v.SetDefault("batch.workers", d.Batch.Workers)
	v.SetDefault("batch.pattern", d.Batch.Pattern)
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			Mode:         "debug",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 90 * time.Second,
			MaxUpload:    20 * 1024 * 1024,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  24 * time.Hour,
		},
		Removal: RemovalConfig{
			Threshold:      0.1,
			Scale:          4.0,
			FilenamePrefix: "SVG/vector_edited",
		},
		Vectorizer: VectorizerConfig{
			Backend:          "api",
			APIID:            "YOUR_API_ID_HERE",
			APISecret:        "YOUR_API_SECRET_HERE",
			Endpoint:         "https://vectorizer.ai/api/v1/vectorize",
			Mode:             "production",
			OutputFormat:     "svg",
			MinShapeArea:     0.125,
			DisableGapFiller: true,
			Timeout:          60 * time.Second,
			MaxUploadSize:    4096,
			SaveSVG:          true,
			FilenamePrefix:   "SVG/vector",
		},
		Storage: StorageConfig{
			Backend:     "local",
			OutputDir:   "./output",
			Retention:   7 * 24 * time.Hour,
			CleanupCron: "@hourly",
		},
		Batch: BatchConfig{
			Workers: 4,
			Pattern: "**/*.{png,jpg,jpeg,webp,bmp}",
		},
	}
}
