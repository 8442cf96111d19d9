package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Mail   MailConfig
	Admin  AdminConfig
	Cron   CronConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port    string
	SiteURL string // 店面地址，邮件内链接用
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN string
}

// JWTConfig 后台认证配置
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// MailConfig 事务邮件配置
type MailConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
}

// AdminConfig 默认管理员（首次启动自动创建）
type AdminConfig struct {
	Username string
	Password string
}

// CronConfig 定时任务配置
type CronConfig struct {
	Enabled        bool
	ExpirySchedule string
}

// Load 读取配置
// 优先级：环境变量 > config.yaml > 默认值
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.site_url", "http://localhost:3000")
	viper.SetDefault("db.dsn", "host=localhost user=postgres password=postgres dbname=tidalshare port=5432 sslmode=disable TimeZone=Asia/Seoul")
	viper.SetDefault("jwt.secret", "tidalshare-secret-key-change-in-production")
	viper.SetDefault("jwt.access_token_ttl", "2h")
	viper.SetDefault("jwt.refresh_token_ttl", "168h")
	viper.SetDefault("mail.base_url", "https://api.resend.com")
	viper.SetDefault("mail.sender", "TidalShare <noreply@example.com>")
	viper.SetDefault("admin.username", "admin")
	viper.SetDefault("cron.enabled", true)
	viper.SetDefault("cron.expiry_schedule", "0 0 4 * * *")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("[Config] 未找到配置文件，使用环境变量与默认值: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:    viper.GetString("server.port"),
			SiteURL: viper.GetString("server.site_url"),
		},
		DB: DBConfig{
			DSN: viper.GetString("db.dsn"),
		},
		JWT: JWTConfig{
			Secret:          viper.GetString("jwt.secret"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl"),
		},
		Mail: MailConfig{
			BaseURL: viper.GetString("mail.base_url"),
			APIKey:  viper.GetString("mail.api_key"),
			Sender:  viper.GetString("mail.sender"),
		},
		Admin: AdminConfig{
			Username: viper.GetString("admin.username"),
			Password: viper.GetString("admin.password"),
		},
		Cron: CronConfig{
			Enabled:        viper.GetBool("cron.enabled"),
			ExpirySchedule: viper.GetString("cron.expiry_schedule"),
		},
	}
}
