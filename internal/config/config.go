package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"ZapRelayBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Completion struct {
		Provider string `yaml:"provider" env:"COMPLETION_PROVIDER" env-default:"ollama"`
		URL      string `yaml:"url" env:"COMPLETION_URL" env-default:"http://ollama:11434/api/generate"`
		Model    string `yaml:"model" env:"COMPLETION_MODEL" env-default:"llama3"`
		ApiKey   string `yaml:"api_key" env:"COMPLETION_API_KEY" env-default:""`
	} `yaml:"completion"`
	Gateway struct {
		BaseURL string `yaml:"base_url" env:"WHATSAPP_API_URL" env-default:"http://whatsapp-api:3000"`
	} `yaml:"gateway"`
	// Authorized holds the numeric sender allow-list, matched exactly
	// against the part of the JID before the @.
	Authorized []string `yaml:"authorized" env:"AUTHORIZED_USERS" env-default:""`
	Mongo      struct {
		Enabled     bool   `yaml:"enabled" env-default:"false"`
		Host        string `yaml:"host" env-default:"127.0.0.1"`
		Port        string `yaml:"port" env-default:"27017"`
		User        string `yaml:"user" env-default:""`
		Password    string `yaml:"password" env-default:""`
		Database    string `yaml:"database" env-default:"zaprelay"`
		KeepPerUser int    `yaml:"keep_per_user" env-default:"100"`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env:"PORT" env-default:"9200"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
