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

type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	Build    string
	AppName  string
	WorkDir  string

	// SECRET_KEY signs session cookies and must be overridden outside DEV.
	SecretKey []byte

	DefaultFromEmail mail.Address
	FrontendBaseURL  string
	SendgridAPIKey   string
	RollbarToken     string

	SessionExpirationDelta    time.Duration
	PasswordResetTimeoutDelta time.Duration
	PasswordMinLength         int

	Database struct {
		Path string
	}

	Server struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
	}
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Pedidos GS")
	conf.SetDefault("secretKey", "dev_secret_change_me") // insecure default; override in deployment
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("frontendBaseURL", "http://localhost:8000")
	conf.SetDefault("sessionExpirationDelta", 12*time.Hour)
	conf.SetDefault("passwordResetTimeoutDelta", 2*time.Hour)
	conf.SetDefault("databasePath", "pedidos.db")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("shutdownTimeout", 5*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(getwd(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("appName"),
		WorkDir:          getwd(),
		SecretKey:        []byte(conf.GetString("secretKey")),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		SendgridAPIKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),

		SessionExpirationDelta:    conf.GetDuration("sessionExpirationDelta"),
		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
		PasswordMinLength:         6,
	}
	c.Database.Path = conf.GetString("databasePath")
	c.Server.Host, _ = os.Hostname()
	c.Server.Address = conf.GetString("serverAddress")
	c.Server.ShutdownTimeout = conf.GetDuration("shutdownTimeout")
	return c
}

func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	return wd
}
