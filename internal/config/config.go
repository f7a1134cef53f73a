package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type UploadConfig struct {
	Path              string `mapstructure:"path"`
	URLPrefix         string `mapstructure:"url_prefix"`
	MaxUploadMB       int    `mapstructure:"max_upload_mb"`
	MaxBodyMB         int    `mapstructure:"max_body_mb"`
	AllowedExtensions string `mapstructure:"allowed_extensions"`
	PendingTTLMinutes int    `mapstructure:"pending_ttl_minutes"`
	StaticCacheHeader string `mapstructure:"static_cache_header"`
}

// GeminiConfig 文本核验服务（外部 AI）配置
type GeminiConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// OCRConfig 图片文字识别服务配置
type OCRConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type CaptchaConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	AuthRPS     float64 `mapstructure:"auth_rps"`
	AuthBurst   int     `mapstructure:"auth_burst"`
	UploadRPS   float64 `mapstructure:"upload_rps"`
	UploadBurst int     `mapstructure:"upload_burst"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	enforceJWTSecretSafety()
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 设置默认值
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/newsjam.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "newsjam")
	v.SetDefault("database.ssl", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("upload.path", "uploads/media")
	v.SetDefault("upload.url_prefix", "/media/")
	v.SetDefault("upload.max_upload_mb", 10)
	v.SetDefault("upload.max_body_mb", 2)
	v.SetDefault("upload.allowed_extensions", ".jpg,.jpeg,.png,.gif,.webp,.bmp")
	v.SetDefault("upload.pending_ttl_minutes", 60)
	v.SetDefault("upload.static_cache_header", "public, max-age=86400")
	v.SetDefault("gemini.endpoint", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.timeout_seconds", 30)
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.timeout_seconds", 30)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "newsjam")
	v.SetDefault("captcha.enabled", false)
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.auth_rps", 5)
	v.SetDefault("ratelimit.auth_burst", 10)
	v.SetDefault("ratelimit.upload_rps", 2)
	v.SetDefault("ratelimit.upload_burst", 5)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 NEWSJAM_ 开头
	// 例如：yaml 中的 server.port 对应环境变量 NEWSJAM_SERVER_PORT
	v.SetEnvPrefix("NEWSJAM")

	// 允许自动查找环境变量
	v.AutomaticEnv()

	// 解决层级分隔符问题：将 key 中的 "." 替换为 "_"
	// 这样 server.port 才能匹配 SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 初始加载配置
	return v
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	// 将配置映射到结构体
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	// 安全检查
	if tempConfig.Server.Mode == "release" {
		if tempConfig.JWT.Secret == "" || tempConfig.JWT.Secret == "newsjam_secret" {
			log.Println("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！")
		}
	} else {
		if tempConfig.JWT.Secret == "" {
			log.Println("⚠️ [开发模式警告] 未设置 JWT Secret，将使用默认不安全密钥进行开发")
			tempConfig.JWT.Secret = "newsjam_secret"
		}
	}

	// 原子替换全局配置
	appConfig.Store(&tempConfig)
	log.Println("✅ 配置已更新")
}

func enforceJWTSecretSafety() {
	// 首次启动安全检查：如果是 release 模式，拦截不安全的 JWT Secret
	curr := Get()
	if curr.Server.Mode == "release" {
		if curr.JWT.Secret == "" || curr.JWT.Secret == "newsjam_secret" {
			log.Fatal("❌ [安全严重错误] 生产模式(release)下必须设置安全的 JWT Secret！\n请设置环境变量 NEWSJAM_JWT_SECRET 或在配置文件中指定 jwt.secret")
		}
	}
}
