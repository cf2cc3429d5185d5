package config

import (
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = "config.yaml"

//go:embed config_default.yaml
var embeddedConfig []byte

type Config struct {
	Conf struct {
		Env              string `yaml:"env"`
		Port             string `yaml:"port"`
		DatabaseURL      string `yaml:"databaseUrl"`
		JWTSecret        string `yaml:"jwtSecret"`
		OperatorUsername string `yaml:"operatorUsername"`
		OperatorPassword string `yaml:"operatorPassword"`
	} `yaml:"conf"`
}

// Load reads config.yaml from the working directory if present, falling back
// to the embedded defaults. Environment variables always win over the file.
func Load() (*Config, error) {
	c := &Config{}

	buf, err := os.ReadFile(ConfigFileName)
	if err != nil {
		log.Printf("Config file not found at %s, using embedded defaults", ConfigFileName)
		buf = embeddedConfig
	}

	if err := yaml.Unmarshal(buf, c); err != nil {
		return nil, fmt.Errorf("in config file: %w", err)
	}

	overrideEnv(&c.Conf.Env, "ENV")
	overrideEnv(&c.Conf.Port, "PORT")
	overrideEnv(&c.Conf.DatabaseURL, "DATABASE_URL")
	overrideEnv(&c.Conf.JWTSecret, "JWT_SECRET")
	overrideEnv(&c.Conf.OperatorUsername, "OPERATOR_USERNAME")
	overrideEnv(&c.Conf.OperatorPassword, "OPERATOR_PASSWORD")

	return c, nil
}

func (c *Config) IsProduction() bool {
	return c.Conf.Env == "production"
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
