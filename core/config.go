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
		Address         string
		Host            string
		DebugHost       string
		BaseURL         string
		ShutdownTimeout time.Duration
		SessionTTL      time.Duration
		DisableReqLogs  bool
	}

	LeaveConfig struct {
		SubmitDelay time.Duration
	}

	ScreenshotConfig struct {
		BaseURL string
		OutDir  string
		Settle  time.Duration
		Timeout time.Duration
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		SecretKey        string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string
		Server           ServerConfig
		Leave            LeaveConfig
		Screenshot       ScreenshotConfig
	}
)

// NewConfig reads the configuration from the environment.
// ENV selects the variable prefix (DEV by default) and the optional config/.env.<env> file.
func NewConfig() *Config {
	vpr := viper.New()

	// defaults
	vpr.SetTypeByDefaultValue(true)
	vpr.SetDefault("debug", true)
	vpr.SetDefault("appName", "EduTracker")
	vpr.SetDefault("build", "dev")
	vpr.SetDefault("secretKey", "k2v8-ghd)zwq$+12=ab&uoxe4(t!m)#*p7(#yg4h^$cegm2emy")
	vpr.SetDefault("defaultFromEmail", "EduTracker <noreply@edutracker.com>")
	vpr.SetDefault("sendgridApiKey", "")
	vpr.SetDefault("rollbarToken", "")
	vpr.SetDefault("server.address", ":5173")
	vpr.SetDefault("server.host", "localhost")
	vpr.SetDefault("server.debugHost", ":4000")
	vpr.SetDefault("server.baseURL", "http://localhost:5173")
	vpr.SetDefault("server.shutdownTimeout", 5*time.Second)
	vpr.SetDefault("server.sessionTTL", 7*24*time.Hour)
	vpr.SetDefault("server.disableReqLogs", false)
	vpr.SetDefault("leave.submitDelay", 2*time.Second)
	vpr.SetDefault("screenshot.baseURL", "http://localhost:5173")
	vpr.SetDefault("screenshot.outDir", "figma-screenshots")
	vpr.SetDefault("screenshot.settle", 600*time.Millisecond)
	vpr.SetDefault("screenshot.timeout", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		vpr.SetDefault("testMode", true)
	}
	vpr.SetEnvPrefix(env)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	vpr.AutomaticEnv()

	conf := &Config{
		Env:            env,
		Debug:          vpr.GetBool("debug"),
		TestMode:       vpr.GetBool("testMode"),
		AppName:        vpr.GetString("appName"),
		Build:          vpr.GetString("build"),
		SecretKey:      vpr.GetString("secretKey"),
		SendgridApiKey: vpr.GetString("sendgridApiKey"),
		RollbarToken:   vpr.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         vpr.GetString("server.address"),
			Host:            vpr.GetString("server.host"),
			DebugHost:       vpr.GetString("server.debugHost"),
			BaseURL:         strings.TrimRight(vpr.GetString("server.baseURL"), "/"),
			ShutdownTimeout: vpr.GetDuration("server.shutdownTimeout"),
			SessionTTL:      vpr.GetDuration("server.sessionTTL"),
			DisableReqLogs:  vpr.GetBool("server.disableReqLogs"),
		},
		Leave: LeaveConfig{
			SubmitDelay: vpr.GetDuration("leave.submitDelay"),
		},
		Screenshot: ScreenshotConfig{
			BaseURL: strings.TrimRight(vpr.GetString("screenshot.baseURL"), "/"),
			OutDir:  vpr.GetString("screenshot.outDir"),
			Settle:  vpr.GetDuration("screenshot.settle"),
			Timeout: vpr.GetDuration("screenshot.timeout"),
		},
	}

	from, err := mail.ParseAddress(vpr.GetString("defaultFromEmail"))
	if err != nil {
		log.Fatalf("config.defaultFromEmail: %v", err)
	}
	conf.DefaultFromEmail = *from
	return conf
}

// NewTestConfig returns the configuration used by tests: no delays, no output.
func NewTestConfig() *Config {
	conf := NewConfig()
	conf.TestMode = true
	conf.Server.DisableReqLogs = true
	conf.Leave.SubmitDelay = 0
	return conf
}
