package config

import (
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/vango-dev/uploadbox/internal/errors"
)

// Env holds the environment variables that override uploadbox.json.
type Env struct {
	Addr        string `env:"UPLOADBOX_ADDR" env-description:"Preview server listen address"`
	APIBaseURL  string `env:"UPLOADBOX_API_BASE_URL" env-description:"Host API base URL"`
	Timeout     string `env:"UPLOADBOX_TIMEOUT" env-description:"Host API call timeout, e.g. 30s"`
	LogLevel    string `env:"UPLOADBOX_LOG_LEVEL" env-description:"Log level: debug, info, warn, error"`
	LogFormat   string `env:"UPLOADBOX_LOG_FORMAT" env-description:"Log format: text or json"`
	SaveDir     string `env:"UPLOADBOX_SAVE_DIR" env-description:"Local download directory"`
	S3Bucket    string `env:"UPLOADBOX_S3_BUCKET" env-description:"Download bucket"`
	S3Prefix    string `env:"UPLOADBOX_S3_PREFIX" env-description:"Download key prefix"`
	S3Region    string `env:"UPLOADBOX_S3_REGION" env-description:"AWS region of the bucket"`
	S3Endpoint  string `env:"UPLOADBOX_S3_ENDPOINT" env-description:"S3-compatible endpoint (MinIO); empty uses AWS"`
	S3AccessKey string `env:"UPLOADBOX_S3_ACCESS_KEY" env-description:"Access key for the S3-compatible endpoint"`
	S3SecretKey string `env:"UPLOADBOX_S3_SECRET_KEY" env-description:"Secret key for the S3-compatible endpoint"`
}

// ApplyEnv overlays every set UPLOADBOX_* variable onto c.
func (c *Config) ApplyEnv() error {
	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return errors.New("C003").
			WithDetail("Cannot read UPLOADBOX_* environment variables").
			Wrap(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, env.Addr)
	set(&c.Server.APIBaseURL, strings.TrimRight(env.APIBaseURL, "/"))
	set(&c.Server.Timeout, env.Timeout)
	set(&c.Log.Level, env.LogLevel)
	set(&c.Log.Format, env.LogFormat)
	set(&c.Download.Dir, env.SaveDir)
	set(&c.Download.S3.Bucket, env.S3Bucket)
	set(&c.Download.S3.Prefix, env.S3Prefix)
	set(&c.Download.S3.Region, env.S3Region)
	set(&c.Download.S3.Endpoint, env.S3Endpoint)
	set(&c.Download.S3.AccessKey, env.S3AccessKey)
	set(&c.Download.S3.SecretKey, env.S3SecretKey)
	return nil
}

// EnvHelp describes the supported environment variables.
func EnvHelp() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Env{}, &header)
}
