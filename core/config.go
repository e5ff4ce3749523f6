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
		AppName         string
		Env             string // DEV (local; default), TEST, QA, PROD
		Debug           bool
		TestMode        bool
		Build           string
		WorkDir         string
		FrontendBaseURL string
		RollbarToken    string

		DefaultFromEmail mail.Address

		Server   ServerConfig
		Database DatabaseConfig
		Mail     MailConfig
		Notifier NotifierConfig
	}

	ServerConfig struct {
		Host            string
		APIAddr         string
		DebugAddr       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	MailConfig struct {
		Backend string // emailjs (default) | sendgrid | console

		EmailJS EmailJSConfig

		SendgridAPIKey string
	}

	EmailJSConfig struct {
		BaseURL    string
		ServiceID  string
		TemplateID string
		PublicKey  string
		PrivateKey string
	}

	NotifierConfig struct {
		// DefaultTZOffsetHours is applied uniformly to all reminders when the
		// caller does not supply an offset. Fractional hours are allowed (5.5 = IST).
		DefaultTZOffsetHours float64
		DefaultTimeFormat    string // 12hr | 24hr
		SettingsPath         string // appended to FrontendBaseURL in notification emails
		CronEnabled          bool
		CronSpec             string
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "AcadHub")
	conf.SetDefault("build", "dev")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.apiAddr", ":8000")
	conf.SetDefault("server.debugAddr", ":8001")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "acadhub")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.user", "acadhub")
	conf.SetDefault("database.password", "")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("mail.backend", "emailjs")
	conf.SetDefault("mail.emailjs.baseURL", "https://api.emailjs.com")
	conf.SetDefault("mail.emailjs.serviceID", "")
	conf.SetDefault("mail.emailjs.templateID", "")
	conf.SetDefault("mail.emailjs.publicKey", "")
	conf.SetDefault("mail.emailjs.privateKey", "")
	conf.SetDefault("mail.sendgridAPIKey", "")

	conf.SetDefault("notifier.defaultTZOffsetHours", 5.5)
	conf.SetDefault("notifier.defaultTimeFormat", "12hr")
	conf.SetDefault("notifier.settingsPath", "/settings")
	conf.SetDefault("notifier.cronEnabled", false)
	conf.SetDefault("notifier.cronSpec", "@every 30m")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		AppName:         conf.GetString("appName"),
		Env:             env,
		Debug:           conf.GetBool("debug"),
		TestMode:        env == "TEST",
		Build:           conf.GetString("build"),
		WorkDir:         wd,
		FrontendBaseURL: strings.TrimRight(conf.GetString("frontendBaseURL"), "/"),
		RollbarToken:    conf.GetString("rollbarToken"),
		DefaultFromEmail: mail.Address{
			Name:    conf.GetString("appName"),
			Address: conf.GetString("defaultFromEmail"),
		},
		Server: ServerConfig{
			Host:            conf.GetString("server.host"),
			APIAddr:         conf.GetString("server.apiAddr"),
			DebugAddr:       conf.GetString("server.debugAddr"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Mail: MailConfig{
			Backend: conf.GetString("mail.backend"),
			EmailJS: EmailJSConfig{
				BaseURL:    strings.TrimRight(conf.GetString("mail.emailjs.baseURL"), "/"),
				ServiceID:  conf.GetString("mail.emailjs.serviceID"),
				TemplateID: conf.GetString("mail.emailjs.templateID"),
				PublicKey:  conf.GetString("mail.emailjs.publicKey"),
				PrivateKey: conf.GetString("mail.emailjs.privateKey"),
			},
			SendgridAPIKey: conf.GetString("mail.sendgridAPIKey"),
		},
		Notifier: NotifierConfig{
			DefaultTZOffsetHours: conf.GetFloat64("notifier.defaultTZOffsetHours"),
			DefaultTimeFormat:    conf.GetString("notifier.defaultTimeFormat"),
			SettingsPath:         conf.GetString("notifier.settingsPath"),
			CronEnabled:          conf.GetBool("notifier.cronEnabled"),
			CronSpec:             conf.GetString("notifier.cronSpec"),
		},
	}
	return c
}

// SettingsURL is the deep-link included in notification emails.
func (c *Config) SettingsURL() string {
	return c.FrontendBaseURL + c.Notifier.SettingsPath
}
