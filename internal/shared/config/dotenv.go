package config

import (
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"
)

// loadEnvFiles merges KEY=VALUE files into v if they exist. Real environment
// variables still win because AutomaticEnv is consulted first.
func loadEnvFiles(v *viper.Viper, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Printf("config: skip %s: %v", path, err)
			}
		}
	}
}
