// Package config registers the settings, reads reelfeed.toml and the REELFEED_* environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps a key to its environment variable suffix ("feed.page_size" to "feed_page_size").
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, the environment and the config file, then validates the result.
func Setup() error {
	viper.SetConfigName(constant.ReelFeed)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.ReelFeed)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return Validate()
}

// bounds are the inclusive ranges of the numeric settings that need one.
var bounds = map[string][2]int{
	key.FeedPageSize:            {1, 100},
	key.FeedVisibilityThreshold: {1, 100},
	key.FeedDwell:               {0, 5000},
	key.FeedPrefetchDistance:    {0, 50},
	key.TUIItemHeight:           {4, 60},
	key.APITimeout:              {1, 600},
	key.APIRateLimit:            {0, 1000},
}

// Validate reports every setting outside its range.
func Validate() error {
	var errs []error
	for k, b := range bounds {
		if v := viper.GetInt(k); v < b[0] || v > b[1] {
			errs = append(errs, fmt.Errorf("%s: %d is out of range [%d, %d]", k, v, b[0], b[1]))
		}
	}

	if s := strings.TrimSpace(viper.GetString(key.APIBaseURL)); s == "" {
		errs = append(errs, fmt.Errorf("%s: must not be empty", key.APIBaseURL))
	}

	return errors.Join(errs...)
}

func Milliseconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

func Seconds(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Second
}
