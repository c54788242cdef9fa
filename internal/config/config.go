package config

type Config interface {
	EnvConfig
	SmtpConfig
	BizcuitConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDomain() string
}

type SmtpConfig interface {
	GetSmtpHost() string
	GetSmtpPort() string
	GetSmtpAccount() string
	GetSmtpPassword() string
	GetMailFromAddress() string
}

type BizcuitConfig interface {
	GetBizcuitAPI() string
	GetBizcuitClientID() string
	GetBizcuitClientSecret() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
