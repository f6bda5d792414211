package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/flagx"
	"github.com/dmitrijs2005/deviceprov/internal/timex"
)

// JsonConfig is the on-disk JSON shape of Config. Durations use
// timex.Duration so both "300s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`

	BrokerURL            string         `json:"broker_url"`
	BuilderURL           string         `json:"builder_url"`
	ServiceSecret        string         `json:"service_secret"`
	ServiceTokenValidity timex.Duration `json:"service_token_validity"`
	CollaboratorTimeout  timex.Duration `json:"collaborator_timeout"`

	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	ObjectKeyPrefix   string         `json:"object_key_prefix"`
	DownloadURLExpiry timex.Duration `json:"download_url_expiry"`

	GroupKeySize      *int           `json:"group_key_size"`
	DefaultNickname   string         `json:"default_nickname"`
	DefaultCacheTime  *int           `json:"default_cache_time"`
	PendingDeviceTTL  timex.Duration `json:"pending_device_ttl"`
	ReconcileInterval timex.Duration `json:"reconcile_interval"`

	LogFormat string `json:"log_format"`
	LogLevel  string `json:"log_level"`
}

// parseJson loads the JSON file named by -c / -config, if any, and copies
// every field present in it into config. Absent or zero fields keep their
// current value. An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	setString(&config.BrokerURL, c.BrokerURL)
	setString(&config.BuilderURL, c.BuilderURL)
	setString(&config.ServiceSecret, c.ServiceSecret)
	setDuration(&config.ServiceTokenValidity, c.ServiceTokenValidity)
	setDuration(&config.CollaboratorTimeout, c.CollaboratorTimeout)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.ObjectKeyPrefix, c.ObjectKeyPrefix)
	setDuration(&config.DownloadURLExpiry, c.DownloadURLExpiry)

	if c.GroupKeySize != nil {
		config.GroupKeySize = *c.GroupKeySize
	}
	setString(&config.DefaultNickname, c.DefaultNickname)
	if c.DefaultCacheTime != nil {
		config.DefaultCacheTime = *c.DefaultCacheTime
	}
	setDuration(&config.PendingDeviceTTL, c.PendingDeviceTTL)
	setDuration(&config.ReconcileInterval, c.ReconcileInterval)

	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
