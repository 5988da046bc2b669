package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gcfg.v1"
)

// Config 应用配置
type Config struct {
	Port      string
	DBPath    string // 为空时使用内存缓存
	JWTSecret string // 为空时管理接口不鉴权

	GitHubToken  string
	GitHubAPIURL string

	CacheTTL         time.Duration
	FetchTimeout     time.Duration
	MaxDownloadBytes int64 // 单个下载的最大字节数

	DefaultNInterp int
	MaxNInterp     int // n_interp 上限，超过直接拒绝
	ComputeTimeout time.Duration

	RateLimit  int // 每个 IP 每个窗口内的请求数
	RateWindow time.Duration

	AllowedOrigins       []string
	AllowedOriginPattern string
}

// fileConfig mirrors the INI file named by CONFIG_FILE.
type fileConfig struct {
	Server struct {
		Port                 string
		AllowedOrigins       string `gcfg:"allowed-origins"`
		AllowedOriginPattern string `gcfg:"allowed-origin-pattern"`
		RateLimit            int    `gcfg:"rate-limit"`
		RateWindow           string `gcfg:"rate-window"`
	}
	Cache struct {
		Path string
		TTL  string
	}
	Fetch struct {
		Timeout  string
		MaxBytes int64 `gcfg:"max-bytes"`
	}
	Contour struct {
		DefaultNInterp int    `gcfg:"default-n-interp"`
		MaxNInterp     int    `gcfg:"max-n-interp"`
		Timeout        string `gcfg:"timeout"`
	}
	GitHub struct {
		Token  string
		APIURL string `gcfg:"api-url"`
	}
	Auth struct {
		JWTSecret string `gcfg:"jwt-secret"`
	}
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Port:             ":8080",
		DBPath:           "./data/cache.db",
		GitHubAPIURL:     "https://api.github.com",
		CacheTTL:         24 * time.Hour,
		FetchTimeout:     30 * time.Second,
		MaxDownloadBytes: 64 << 20, // 64MB
		DefaultNInterp:   500,
		MaxNInterp:       2000,
		ComputeTimeout:   60 * time.Second,
		RateLimit:        60,
		RateWindow:       time.Minute,
		AllowedOrigins: []string{
			"http://127.0.0.1:4000",
			"https://pages.nist.gov",
			"https://travis-ci.org",
		},
		AllowedOriginPattern: `^https://random-cat-.*\.surge\.sh$`,
	}
}

// Load 加载配置: 默认值 < CONFIG_FILE (INI) < 环境变量
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate 检查配置是否合法
func (c *Config) Validate() error {
	if c.DefaultNInterp < 2 {
		return fmt.Errorf("default n_interp must be at least 2, got %d", c.DefaultNInterp)
	}
	if c.MaxNInterp < c.DefaultNInterp {
		return fmt.Errorf("max n_interp %d is below the default %d", c.MaxNInterp, c.DefaultNInterp)
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d per %s", c.RateLimit, c.RateWindow)
	}
	if c.MaxDownloadBytes <= 0 {
		return fmt.Errorf("max download bytes must be positive, got %d", c.MaxDownloadBytes)
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	var fc fileConfig
	if err := gcfg.ReadFileInto(&fc, path); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Server.Port)
	if fc.Server.AllowedOrigins != "" {
		c.AllowedOrigins = splitList(fc.Server.AllowedOrigins)
	}
	setString(&c.AllowedOriginPattern, fc.Server.AllowedOriginPattern)
	setInt(&c.RateLimit, fc.Server.RateLimit)
	setString(&c.DBPath, fc.Cache.Path)
	setString(&c.GitHubToken, fc.GitHub.Token)
	setString(&c.GitHubAPIURL, fc.GitHub.APIURL)
	setString(&c.JWTSecret, fc.Auth.JWTSecret)
	setInt(&c.DefaultNInterp, fc.Contour.DefaultNInterp)
	setInt(&c.MaxNInterp, fc.Contour.MaxNInterp)
	if fc.Fetch.MaxBytes > 0 {
		c.MaxDownloadBytes = fc.Fetch.MaxBytes
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"server.rate-window", fc.Server.RateWindow, &c.RateWindow},
		{"cache.ttl", fc.Cache.TTL, &c.CacheTTL},
		{"fetch.timeout", fc.Fetch.Timeout, &c.FetchTimeout},
		{"contour.timeout", fc.Contour.Timeout, &c.ComputeTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s in %s: %w", d.name, path, err)
		}
		*d.dst = v
	}

	return nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		c.Port = port
	}

	// DB_PATH 显式设置为空字符串时使用内存缓存
	if dbPath, ok := os.LookupEnv("DB_PATH"); ok {
		c.DBPath = dbPath
	}

	setString(&c.JWTSecret, os.Getenv("JWT_SECRET"))
	setString(&c.GitHubToken, os.Getenv("GITHUB_TOKEN"))
	setString(&c.GitHubAPIURL, os.Getenv("GITHUB_API_URL"))
	setString(&c.AllowedOriginPattern, os.Getenv("ALLOWED_ORIGIN_PATTERN"))
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DEFAULT_N_INTERP", &c.DefaultNInterp},
		{"MAX_N_INTERP", &c.MaxNInterp},
		{"RATE_LIMIT", &c.RateLimit},
	}
	for _, e := range ints {
		raw := os.Getenv(e.key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = v
	}

	if raw := os.Getenv("MAX_DOWNLOAD_BYTES"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_DOWNLOAD_BYTES: %w", err)
		}
		c.MaxDownloadBytes = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"CACHE_TTL", &c.CacheTTL},
		{"FETCH_TIMEOUT", &c.FetchTimeout},
		{"COMPUTE_TIMEOUT", &c.ComputeTimeout},
		{"RATE_WINDOW", &c.RateWindow},
	}
	for _, e := range durations {
		raw := os.Getenv(e.key)
		if raw == "" {
			continue
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.key, err)
		}
		*e.dst = v
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
