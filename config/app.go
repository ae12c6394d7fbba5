package config

import (
	"io/ioutil"
	"os"

	yaml "gopkg.in/yaml.v2"
)

type AppConfig struct {
	Port           string `yaml:"port"`
	PostingRetries int    `yaml:"posting_retries"`
}

var App AppConfig

func LoadAppConfig() error {
	App = AppConfig{
		Port:           "3000",
		PostingRetries: 3,
	}

	path := os.Getenv("APP_CONFIG")
	if path == "" {
		path = "config/app.yml"
	}

	content, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(content, &App)
}
