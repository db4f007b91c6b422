package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env     string        `yaml:"env" env-default:"local"`
	DSN     string        `yaml:"dsn" env-required:"true"`
	HTTP    HTTPConfig    `yaml:"http"`
	Redis   RedisConf     `yaml:"redis"`
	Gallery GalleryConfig `yaml:"gallery"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type GalleryConfig struct {
	// RedirectEnabled turns an unknown item slug into a permanent redirect
	// to the gallery instead of a 404.
	RedirectEnabled bool `yaml:"redirect_enabled" env-default:"false"`
	// SavePublishableOnPhoto enables the recent-pub denormalization onto
	// photo app data.
	SavePublishableOnPhoto bool   `yaml:"save_publishable_on_photo" env-default:"false"`
	TemplateDir            string `yaml:"template_dir" env-default:"templates"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
