package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig 后端服务地址配置
type BackendConfig struct {
	BaseURL      string // 价格/搜索后端地址
	FearGreedURL string // 恐惧贪婪指数服务地址
	CMCBaseURL   string // CoinMarketCap Pro API 地址
	CMCAPIKey    string // CoinMarketCap API Key
}

// MarketConfig 市场数据同步配置
type MarketConfig struct {
	CatalogFile     string        // 内置代币基础列表（JSON）
	RefreshInterval time.Duration // 价格刷新周期
	SearchDebounce  time.Duration // 地址搜索防抖窗口
	MetricsInterval time.Duration // 情绪指标刷新周期
}

// Config 应用配置
type Config struct {
	Backend    BackendConfig
	Market     MarketConfig
	DataDir    string // 本地 KV 数据目录（收藏持久化）
	ListenAddr string // HTTP API 监听地址
	LogLevel   string // 日志级别
	LogFile    string // 日志文件路径（可选）
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	Backend struct {
		BaseURL      string `yaml:"base_url" json:"base_url"`
		FearGreedURL string `yaml:"fear_greed_url" json:"fear_greed_url"`
		CMCBaseURL   string `yaml:"cmc_base_url" json:"cmc_base_url"`
		CMCAPIKey    string `yaml:"cmc_api_key" json:"cmc_api_key"`
	} `yaml:"backend" json:"backend"`
	Market struct {
		CatalogFile      string `yaml:"catalog_file" json:"catalog_file"`
		RefreshIntervalS int    `yaml:"refresh_interval_seconds" json:"refresh_interval_seconds"`
		SearchDebounceMs int    `yaml:"search_debounce_ms" json:"search_debounce_ms"`
		MetricsIntervalS int    `yaml:"metrics_interval_seconds" json:"metrics_interval_seconds"`
	} `yaml:"market" json:"market"`
	DataDir    string `yaml:"data_dir" json:"data_dir"`
	ListenAddr string `yaml:"listen_addr" json:"listen_addr"`
	LogLevel   string `yaml:"log_level" json:"log_level"`
	LogFile    string `yaml:"log_file" json:"log_file"`
}

var globalConfig *Config
var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// Load 加载配置
func Load() (*Config, error) {
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置（优先级：配置文件 > 环境变量 > 默认值）
func LoadFromFile(filePath string) (*Config, error) {
	if globalConfig != nil && configFilePath == filePath {
		return globalConfig, nil
	}

	var configFile *ConfigFile
	if filePath != "" {
		if _, err := os.Stat(filePath); err == nil {
			cf, err := loadConfigFile(filePath)
			if err != nil {
				return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
			}
			configFile = cf
		}
	}

	config := &Config{
		Backend: BackendConfig{
			BaseURL:      pickString(configFile, func(cf *ConfigFile) string { return cf.Backend.BaseURL }, "FLUXOR_BACKEND_URL", "https://fluxor-backend-ouwq.onrender.com"),
			FearGreedURL: pickString(configFile, func(cf *ConfigFile) string { return cf.Backend.FearGreedURL }, "FLUXOR_FEAR_GREED_URL", "https://api.alternative.me"),
			CMCBaseURL:   pickString(configFile, func(cf *ConfigFile) string { return cf.Backend.CMCBaseURL }, "FLUXOR_CMC_URL", "https://pro-api.coinmarketcap.com"),
			CMCAPIKey:    pickString(configFile, func(cf *ConfigFile) string { return cf.Backend.CMCAPIKey }, "FLUXOR_CMC_API_KEY", ""),
		},
		Market: MarketConfig{
			CatalogFile:     pickString(configFile, func(cf *ConfigFile) string { return cf.Market.CatalogFile }, "FLUXOR_CATALOG_FILE", "data/tokens.json"),
			RefreshInterval: time.Duration(pickInt(configFile, func(cf *ConfigFile) int { return cf.Market.RefreshIntervalS }, "FLUXOR_REFRESH_INTERVAL", 60)) * time.Second,
			SearchDebounce:  time.Duration(pickInt(configFile, func(cf *ConfigFile) int { return cf.Market.SearchDebounceMs }, "FLUXOR_SEARCH_DEBOUNCE_MS", 600)) * time.Millisecond,
			MetricsInterval: time.Duration(pickInt(configFile, func(cf *ConfigFile) int { return cf.Market.MetricsIntervalS }, "FLUXOR_METRICS_INTERVAL", 300)) * time.Second,
		},
		DataDir:    pickString(configFile, func(cf *ConfigFile) string { return cf.DataDir }, "FLUXOR_DATA_DIR", "data/fluxor-db"),
		ListenAddr: pickString(configFile, func(cf *ConfigFile) string { return cf.ListenAddr }, "FLUXOR_LISTEN_ADDR", ":8080"),
		LogLevel:   pickString(configFile, func(cf *ConfigFile) string { return cf.LogLevel }, "LOG_LEVEL", "info"),
		LogFile:    pickString(configFile, func(cf *ConfigFile) string { return cf.LogFile }, "LOG_FILE", "logs/fluxor.log"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	globalConfig = config
	configFilePath = filePath
	return config, nil
}

// Get 获取全局配置（如果已加载）
func Get() *Config {
	return globalConfig
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url 不能为空")
	}
	if c.Market.CatalogFile == "" {
		return fmt.Errorf("catalog_file 不能为空")
	}
	if c.Market.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval_seconds 必须大于 0")
	}
	if c.Market.SearchDebounce <= 0 {
		return fmt.Errorf("search_debounce_ms 必须大于 0")
	}
	return nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

// pickString 从多个源获取字符串值（优先级：配置文件 > 环境变量 > 默认值）
func pickString(cf *ConfigFile, getter func(*ConfigFile) string, envKey, defaultValue string) string {
	if cf != nil {
		if v := getter(cf); v != "" {
			return v
		}
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// pickInt 从多个源获取整数值（优先级：配置文件 > 环境变量 > 默认值）
func pickInt(cf *ConfigFile, getter func(*ConfigFile) int, envKey string, defaultValue int) int {
	if cf != nil {
		if v := getter(cf); v > 0 {
			return v
		}
	}
	if envVal := os.Getenv(envKey); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
