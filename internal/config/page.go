package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// PageContent is the static content rendered above the follows list.
type PageContent struct {
	Title         string `mapstructure:"title"`
	ProfileHandle string `mapstructure:"profile_handle"`
	Intro         string `mapstructure:"intro"`
	Limit         int    `mapstructure:"limit"`
}

// DefaultIntro is shown when no page content file sets one.
const DefaultIntro = "Accounts I follow on Bluesky."

// LoadPageContent reads page content from a YAML file. Values missing from
// the file, or the whole file when path is empty, fall back to the PageConfig
// defaults.
func LoadPageContent(path string, defaults PageConfig) (PageContent, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("title", "Follows")
	v.SetDefault("profile_handle", defaults.ProfileHandle)
	v.SetDefault("intro", DefaultIntro)
	v.SetDefault("limit", defaults.Limit)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return PageContent{}, fmt.Errorf("failed to read page content %s: %w", path, err)
		}
	}

	var content PageContent
	if err := v.Unmarshal(&content); err != nil {
		return PageContent{}, fmt.Errorf("failed to decode page content: %w", err)
	}
	if content.ProfileHandle == "" {
		return PageContent{}, fmt.Errorf("page profile handle is required")
	}
	return content, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
