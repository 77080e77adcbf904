package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env holds process settings read from the environment.
type Env struct {
	ConfigPath string `envconfig:"KWMAP_CONFIG"`
	LogMode    string `envconfig:"KWMAP_LOG_MODE" default:"development"`
	LogLevel   string `envconfig:"KWMAP_LOG_LEVEL" default:"info"`
	Workers    int    `envconfig:"KWMAP_WORKERS" default:"4"`
}

// LoadEnv loads an optional .env file and then reads Env from the process
// environment. Variables already set take precedence over the file.
func LoadEnv() (*Env, error) {
	_ = godotenv.Load()
	var e Env
	err := envconfig.Process("", &e)
	return &e, err
}
