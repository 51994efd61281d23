package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configFileName = ".resultctl"
	configFileType = "yaml"
	envPrefix      = "RESULTCTL"

	cfgKeySource       = "source"
	cfgKeySuccessType  = "success_type"
	cfgKeyFailureType  = "failure_type"
	cfgKeyMetadataMode = "metadata_mode"
	cfgKeyPayload      = "payload"
	cfgKeyCodec        = "codec"
	cfgKeyCompression  = "compression"
	cfgKeyLogLevel     = "log_level"

	cfgKeyBackend       = "archive.backend"
	cfgKeyDir           = "archive.dir"
	cfgKeyBucket        = "archive.bucket"
	cfgKeyPrefix        = "archive.prefix"
	cfgKeyEndpoint      = "archive.endpoint"
	cfgKeyRegion        = "archive.region"
	cfgKeyWorkers       = "archive.workers"
	cfgKeyRateBytes     = "archive.rate_bytes"
	cfgKeyCacheBytes    = "archive.cache_bytes"
	cfgKeyDynamoDBTable = "archive.dynamodb_table"
)

// loadConfig reads configuration from file, RESULTCTL_* environment
// variables, and defaults. An explicit file must exist; the implicit
// .resultctl.yaml in the working directory is optional.
func loadConfig(v *viper.Viper, file string) error {
	v.SetDefault(cfgKeySource, "urn:resultctl")
	v.SetDefault(cfgKeySuccessType, "resultctl.success")
	v.SetDefault(cfgKeyFailureType, "resultctl.failure")
	v.SetDefault(cfgKeyMetadataMode, "always")
	v.SetDefault(cfgKeyPayload, "auto")
	v.SetDefault(cfgKeyCodec, "go-json")
	v.SetDefault(cfgKeyCompression, "zstd")
	v.SetDefault(cfgKeyLogLevel, "warn")
	v.SetDefault(cfgKeyBackend, "local")
	v.SetDefault(cfgKeyDir, ".results-archive")
	v.SetDefault(cfgKeyPrefix, "envelopes")
	v.SetDefault(cfgKeyWorkers, 4)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}
