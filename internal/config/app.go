package config

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr" env:"HTTP_ADDR,default=:8501"`
	} `mapstructure:"http"`
	Downloads struct {
		Dir string `mapstructure:"dir" env:"DOWNLOADS_DIR,default=downloads"`
	} `mapstructure:"downloads"`
	Cache struct {
		Size int `mapstructure:"size" env:"CACHE_SIZE,default=32"`
	} `mapstructure:"cache"`
	YtDlp struct {
		Binary   string        `mapstructure:"binary" env:"YTDLP_BINARY,default=yt-dlp"`
		CacheDir string        `mapstructure:"cache_dir" env:"YTDLP_CACHE_DIR,default=/tmp/yt-dlp"`
		MaxRetry uint          `mapstructure:"max_retry" env:"YTDLP_MAX_RETRY,default=1"`
		Timeout  time.Duration `mapstructure:"timeout" env:"YTDLP_TIMEOUT,default=10m"`
	} `mapstructure:"ytdlp"`
	Telegram struct {
		Bot struct {
			Token string `mapstructure:"token" env:"TELEGRAM_BOT_TOKEN"`
		} `mapstructure:"bot"`
	} `mapstructure:"telegram"`
	Log struct {
		Level       string `mapstructure:"level" env:"LOG_LEVEL,default=info"`
		Development bool   `mapstructure:"development" env:"LOG_DEVELOPMENT"`
	} `mapstructure:"log"`
}

// NewConfig reads the yaml file at configPath, if any, and then fills the
// fields that are still empty from the environment and the defaults.
func NewConfig(ctx context.Context, configPath string) (*Config, error) {
	var conf Config
	if len(configPath) > 0 {
		if err := readFile(configPath, &conf); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(ctx, &conf); err != nil {
		return nil, errors.Wrap(err, "failed to process config environment variables")
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func readFile(configPath string, conf *Config) error {
	f, err := os.Open(configPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open config file '%s'", configPath)
	}
	defer f.Close()

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(f); err != nil {
		return errors.Wrap(err, "failed to read config yaml file")
	}
	if err := v.Unmarshal(conf); err != nil {
		return errors.Wrap(err, "failed to decode config yaml file")
	}

	return nil
}

func (c *Config) validate() error {
	if c.Cache.Size < 1 {
		return errors.Errorf("cache size must be positive, got %d", c.Cache.Size)
	}
	if c.YtDlp.MaxRetry < 1 {
		return errors.Errorf("ytdlp max_retry must be at least 1, got %d", c.YtDlp.MaxRetry)
	}
	if len(c.Downloads.Dir) == 0 {
		return errors.New("downloads dir must not be empty")
	}

	return nil
}
