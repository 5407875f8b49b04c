package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// SupportedLocales - локали сайта в порядке приоритета
var SupportedLocales = []string{"en", "es", "fr", "zh", "ru", "ar"}

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Email     EmailConfig     `mapstructure:"email"`
	Site      SiteConfig      `mapstructure:"site"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout"`
	WriteTimeout int      `mapstructure:"write_timeout"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	// StaticDir: каталог со статикой фронтенда, отдаётся page-роутером
	StaticDir string `mapstructure:"static_dir"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"` // мс
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"` // мс
}

// JWTConfig содержит настройки двух независимых типов сессий
type JWTConfig struct {
	AdminSecret       string `mapstructure:"admin_secret"`
	ClientSecret      string `mapstructure:"client_secret"`
	AdminExpiryHours  int    `mapstructure:"admin_expiry_hours"`
	ClientExpiryHours int    `mapstructure:"client_expiry_hours"`
}

// EmailConfig содержит настройки отправки писем через Resend
type EmailConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
	// To: адрес клиники, на который приходят уведомления о записях и обращениях
	To string `mapstructure:"to"`
}

// Enabled сообщает, настроена ли реальная отправка писем
func (e EmailConfig) Enabled() bool {
	return e.ResendAPIKey != ""
}

// SiteConfig содержит публичные настройки сайта
type SiteConfig struct {
	URL           string   `mapstructure:"url"`
	Locales       []string `mapstructure:"locales"`
	DefaultLocale string   `mapstructure:"default_locale"`
}

// AdminConfig - учётная запись администратора, создаваемая при старте
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// AnalyticsConfig содержит ограничения для отчётов
type AnalyticsConfig struct {
	TopN         int `mapstructure:"top_n"`
	MaxRangeDays int `mapstructure:"max_range_days"`
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 30)
	vip.SetDefault("server.allow_origins", []string{"http://localhost:3000"})
	vip.SetDefault("server.static_dir", "./public")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("redis.addr", "localhost:6379")
	vip.SetDefault("jwt.admin_expiry_hours", 7*24)
	vip.SetDefault("jwt.client_expiry_hours", 30*24)
	vip.SetDefault("site.url", "http://localhost:3000")
	vip.SetDefault("site.locales", SupportedLocales)
	vip.SetDefault("site.default_locale", "en")
	vip.SetDefault("admin.name", "Clinic Admin")
	vip.SetDefault("analytics.top_n", 10)
	vip.SetDefault("analytics.max_range_days", 366)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("server.port", "SERVER_PORT", "PORT")
	vip.BindEnv("server.static_dir", "STATIC_DIR")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.admin_secret", "JWT_SECRET")
	vip.BindEnv("jwt.client_secret", "CLIENT_JWT_SECRET")

	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("email.to", "EMAIL_TO")

	vip.BindEnv("site.url", "NEXT_PUBLIC_SITE_URL", "SITE_URL")

	vip.BindEnv("admin.email", "ADMIN_EMAIL")
	vip.BindEnv("admin.password", "ADMIN_PASSWORD")
	vip.BindEnv("admin.name", "ADMIN_NAME")

	// 3. Файл конфигурации необязателен
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Redis Mode: %s, Addr: %s", cfg.Redis.Mode, cfg.Redis.Addr)
		log.Printf("Site URL: %s", cfg.Site.URL)
		log.Printf("Locales: %s (default %s)", strings.Join(cfg.Site.Locales, ","), cfg.Site.DefaultLocale)
		log.Printf("Email enabled: %t", cfg.Email.Enabled())
		log.Printf("Bootstrap admin set: %t", cfg.Admin.Email != "")
		log.Printf("-----------------------------------------")
	}

	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.JWT.AdminSecret == "" {
		return fmt.Errorf("admin JWT secret is required (check JWT_SECRET env var)")
	}
	if c.JWT.ClientSecret == "" {
		return fmt.Errorf("client JWT secret is required (check CLIENT_JWT_SECRET env var)")
	}
	// Сессии админа и клиента должны подписываться разными ключами,
	// иначе токен одной роли проходит проверку подписи другой
	if c.JWT.AdminSecret == c.JWT.ClientSecret {
		return fmt.Errorf("JWT_SECRET and CLIENT_JWT_SECRET must differ")
	}
	if c.JWT.AdminExpiryHours <= 0 || c.JWT.ClientExpiryHours <= 0 {
		return fmt.Errorf("jwt expiry hours must be positive")
	}
	if c.Email.Enabled() && c.Email.From == "" {
		return fmt.Errorf("EMAIL_FROM is required when RESEND_API_KEY is set")
	}
	if len(c.Site.Locales) == 0 {
		c.Site.Locales = SupportedLocales
	}
	if !containsLocale(c.Site.Locales, c.Site.DefaultLocale) {
		return fmt.Errorf("default locale %q is not in the locale list", c.Site.DefaultLocale)
	}
	if c.Analytics.TopN <= 0 {
		c.Analytics.TopN = 10
	}
	if c.Analytics.MaxRangeDays <= 0 {
		c.Analytics.MaxRangeDays = 366
	}
	return nil
}

func containsLocale(locales []string, locale string) bool {
	for _, l := range locales {
		if l == locale {
			return true
		}
	}
	return false
}
