package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Engine            string // bolt (default), redis, memory
		Path              string // bolt file
		RedisAddr         string
		RedisPassword     string
		RedisDB           int
		RedisKeyPrefix    string
		AuthSnapshot      string
		DashboardSnapshot string
	}

	SMTPConfig struct {
		Host     string
		Port     int
		User     string
		Password string
	}

	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName              string
		FrontendBaseURL      string
		DefaultFromEmail     mail.Address
		PasswordResetTimeout time.Duration
		PasswordHashCost     int

		RollbarToken   string
		SendgridAPIKey string
		SMTP           SMTPConfig

		Server  ServerConfig
		Storage StorageConfig
	}
)

// NewConfig reads the configuration from the environment (and the optional `config/.env.<env>` file).
// ENV selects the environment (DEV by default) and is used as the variables prefix, e.g. DEV_APPNAME.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Darasa")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("passwordResetTimeout", time.Hour)
	v.SetDefault("passwordHashCost", 10)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridAPIKey", "")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("storage.engine", "bolt")
	v.SetDefault("storage.path", filepath.Join("data", "darasa.db"))
	v.SetDefault("storage.redisAddr", "localhost:6379")
	v.SetDefault("storage.redisPassword", "")
	v.SetDefault("storage.redisDB", 0)
	v.SetDefault("storage.redisKeyPrefix", "darasa:")
	v.SetDefault("storage.authSnapshot", "auth-storage")
	v.SetDefault("storage.dashboardSnapshot", "dashboard-storage")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	appName := v.GetString("appName")
	return &Config{
		Env:      env,
		Build:    v.GetString("build"),
		Debug:    v.GetBool("debug"),
		TestMode: v.GetBool("testMode"),

		AppName:              appName,
		FrontendBaseURL:      strings.TrimSuffix(v.GetString("frontendBaseURL"), "/"),
		DefaultFromEmail:     mail.Address{Name: appName, Address: v.GetString("defaultFromEmail")},
		PasswordResetTimeout: v.GetDuration("passwordResetTimeout"),
		PasswordHashCost:     v.GetInt("passwordHashCost"),

		RollbarToken:   v.GetString("rollbarToken"),
		SendgridAPIKey: v.GetString("sendgridAPIKey"),
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			User:     v.GetString("smtp.user"),
			Password: v.GetString("smtp.password"),
		},

		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Engine:            strings.ToLower(v.GetString("storage.engine")),
			Path:              v.GetString("storage.path"),
			RedisAddr:         v.GetString("storage.redisAddr"),
			RedisPassword:     v.GetString("storage.redisPassword"),
			RedisDB:           v.GetInt("storage.redisDB"),
			RedisKeyPrefix:    v.GetString("storage.redisKeyPrefix"),
			AuthSnapshot:      v.GetString("storage.authSnapshot"),
			DashboardSnapshot: v.GetString("storage.dashboardSnapshot"),
		},
	}
}
