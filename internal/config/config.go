package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构体
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	MinIO         MinIOConfig         `mapstructure:"minio"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	CDN           CDNConfig           `mapstructure:"cdn"`
	Transcode     TranscodeConfig     `mapstructure:"transcode"`
	Upload        UploadConfig        `mapstructure:"upload"`
	Analytics     AnalyticsConfig     `mapstructure:"analytics"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Log           LogConfig           `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Mode    string `mapstructure:"mode"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
}

// DSN 返回PostgreSQL连接字符串
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr 返回Redis地址
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	Endpoint  string   `mapstructure:"endpoint"`
	AccessKey string   `mapstructure:"access_key"`
	SecretKey string   `mapstructure:"secret_key"`
	UseSSL    bool     `mapstructure:"use_ssl"`
	Buckets   []string `mapstructure:"buckets"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Brokers []string          `mapstructure:"brokers"`
	Topics  map[string]string `mapstructure:"topics"`
}

// ElasticsearchConfig Elasticsearch配置
type ElasticsearchConfig struct {
	Hosts []string          `mapstructure:"hosts"`
	Index map[string]string `mapstructure:"index"`
}

// CDNConfig CDN分发配置
// enabled 为 false 时播放地址直接走 MinIO 公开地址，删除时也不发刷新请求
type CDNConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	PurgeURL string `mapstructure:"purge_url"`
	APIKey   string `mapstructure:"api_key"`
	Timeout  int    `mapstructure:"timeout"` // 秒
}

// TimeoutDuration 返回刷新请求超时时间
func (c *CDNConfig) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// TranscodeConfig 转码配置
type TranscodeConfig struct {
	Concurrency        int      `mapstructure:"concurrency"`         // worker 并发转码数
	DefaultFormats     []string `mapstructure:"default_formats"`     // 默认目标格式
	DefaultResolutions []string `mapstructure:"default_resolutions"` // 默认目标分辨率档位
	TaskTimeout        int      `mapstructure:"task_timeout"`        // 单任务下载/上传超时（秒）
	SegmentDuration    int      `mapstructure:"segment_duration"`    // HLS 切片时长（秒）
}

// TaskTimeoutDuration 返回单个任务内网络操作的超时时间
func (t *TranscodeConfig) TaskTimeoutDuration() time.Duration {
	if t.TaskTimeout <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(t.TaskTimeout) * time.Second
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxSizeBytes    int64 `mapstructure:"max_size_bytes"`    // 上传大小上限（字节）
	SignedURLExpiry int   `mapstructure:"signed_url_expiry"` // 原片签名URL有效期（秒）
}

// SignedURLExpiryDuration 返回签名URL有效期
func (u *UploadConfig) SignedURLExpiryDuration() time.Duration {
	if u.SignedURLExpiry <= 0 {
		return time.Hour
	}
	return time.Duration(u.SignedURLExpiry) * time.Second
}

// AnalyticsConfig 访问统计配置
type AnalyticsConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // 聚合结果缓存时间（秒）
}

// CacheTTLDuration 返回缓存时间
func (a *AnalyticsConfig) CacheTTLDuration() time.Duration {
	if a.CacheTTL <= 0 {
		return time.Minute
	}
	return time.Duration(a.CacheTTL) * time.Second
}

// JWTConfig JWT配置（令牌由平台认证服务签发，这里只做校验）
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// 全局配置实例
var globalConfig *Config

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	v.SetConfigFile(configPath)

	// 设置配置文件类型
	v.SetConfigType("yaml")

	// 读取环境变量
	v.AutomaticEnv()

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 解析配置到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 保存到全局变量
	globalConfig = &cfg

	return &cfg, nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded, please call Load() first")
	}
	return globalConfig
}

// GetApp 获取应用配置
func GetApp() *AppConfig {
	return &Get().App
}

// GetDatabase 获取数据库配置
func GetDatabase() *DatabaseConfig {
	return &Get().Database
}

// GetRedis 获取Redis配置
func GetRedis() *RedisConfig {
	return &Get().Redis
}

// GetMinIO 获取MinIO配置
func GetMinIO() *MinIOConfig {
	return &Get().MinIO
}

// GetKafka 获取Kafka配置
func GetKafka() *KafkaConfig {
	return &Get().Kafka
}

// GetElasticsearch 获取Elasticsearch配置
func GetElasticsearch() *ElasticsearchConfig {
	return &Get().Elasticsearch
}

// GetCDN 获取CDN配置
func GetCDN() *CDNConfig {
	return &Get().CDN
}

// GetTranscode 获取转码配置
func GetTranscode() *TranscodeConfig {
	return &Get().Transcode
}

// GetUpload 获取上传配置
func GetUpload() *UploadConfig {
	return &Get().Upload
}

// GetAnalytics 获取访问统计配置
func GetAnalytics() *AnalyticsConfig {
	return &Get().Analytics
}

// GetJWT 获取JWT配置
func GetJWT() *JWTConfig {
	return &Get().JWT
}

// GetLog 获取日志配置
func GetLog() *LogConfig {
	return &Get().Log
}
