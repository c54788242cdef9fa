package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	domainEnvVar  = "DOMAIN"
	bizcuitAPIVar = "BIZCUIT_API"
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Bizcuit Gateway")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetDomain returns the externally visible base URL of this service. It is
// the root of the redirect URI registered with Bizcuit.
func (EnvVars) GetDomain() string {
	return GetEnv(domainEnvVar, "http://localhost:8080")
}

func (EnvVars) GetSmtpHost() string {
	return GetEnv("SMTP_HOST", "smtp.gmail.com")
}

func (EnvVars) GetSmtpPort() string {
	return GetEnv("SMTP_PORT", "587")
}

func (EnvVars) GetSmtpAccount() string {
	return GetEnv("SMTP_ACCOUNT", "")
}

func (EnvVars) GetSmtpPassword() string {
	return GetEnv("SMTP_PASSWORD", "")
}

func (EnvVars) GetMailFromAddress() string {
	return GetEnv("MAIL_FROM_ADDRESS", "")
}

func (EnvVars) GetBizcuitAPI() string {
	return GetEnv(bizcuitAPIVar, "")
}

func (EnvVars) GetBizcuitClientID() string {
	return GetEnv("BIZCUIT_CLIENT_ID", "")
}

func (EnvVars) GetBizcuitClientSecret() string {
	return GetEnv("BIZCUIT_CLIENT_SECRET", "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
