package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Mail     MailConfig
		Calendar CalendarConfig
		Storage  StorageConfig
	}

	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		CookieName         string
		SessionName        string
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
	}

	MailConfig struct {
		DefaultFromEmail string
		SendgridApiKey   string
		Subject          string
	}

	CalendarConfig struct {
		Provider        string // google | memory
		CredentialsFile string
		Summary         string
		TimeZone        string
		MaxAttempts     int
		InitialBackoff  time.Duration
	}

	StorageConfig struct {
		Engine      string // bolt | b2
		BoltPath    string
		B2AccountID string
		B2AppKey    string
		B2Bucket    string
	}
)

func (c DatabaseConfig) Address() string {
	if c.Port == "" {
		return c.Host
	}
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(c.Mail.DefaultFromEmail)
	if err != nil {
		return mail.Address{Name: c.AppName, Address: c.Mail.DefaultFromEmail}
	}
	if addr.Name == "" {
		addr.Name = c.AppName
	}
	return *addr
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Assignment Organizer")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "x8f!k2-(tq0j%$hb1i*s9z@4c&w+l7m3rn6y_ve5ao)gd2up")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.cookieName", "token")
	v.SetDefault("server.sessionName", "organizer-session")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "organizer")
	v.SetDefault("database.user", "organizer")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "organizer.db")

	v.SetDefault("mail.defaultFromEmail", "noreply@localhost")
	v.SetDefault("mail.subject", "Assignment Organizer")

	v.SetDefault("calendar.provider", "memory")
	v.SetDefault("calendar.credentialsFile", "credentials.json")
	v.SetDefault("calendar.summary", "assignment organizer")
	v.SetDefault("calendar.timeZone", "America/New_York")
	v.SetDefault("calendar.maxAttempts", 4)
	v.SetDefault("calendar.initialBackoff", 250*time.Millisecond)

	v.SetDefault("storage.engine", "bolt")
	v.SetDefault("storage.boltPath", filepath.Join("data", "files.db"))

	env := strings.ToUpper(os.Getenv("ENV"))
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

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			CookieName:         v.GetString("server.cookieName"),
			SessionName:        v.GetString("server.sessionName"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
		},
		Mail: MailConfig{
			DefaultFromEmail: v.GetString("mail.defaultFromEmail"),
			SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
			Subject:          v.GetString("mail.subject"),
		},
		Calendar: CalendarConfig{
			Provider:        v.GetString("calendar.provider"),
			CredentialsFile: v.GetString("calendar.credentialsFile"),
			Summary:         v.GetString("calendar.summary"),
			TimeZone:        v.GetString("calendar.timeZone"),
			MaxAttempts:     v.GetInt("calendar.maxAttempts"),
			InitialBackoff:  v.GetDuration("calendar.initialBackoff"),
		},
		Storage: StorageConfig{
			Engine:      v.GetString("storage.engine"),
			BoltPath:    v.GetString("storage.boltPath"),
			B2AccountID: v.GetString("storage.b2AccountID"),
			B2AppKey:    v.GetString("storage.b2AppKey"),
			B2Bucket:    v.GetString("storage.b2Bucket"),
		},
	}
}
