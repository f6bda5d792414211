package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/flagx"
)

var ownedFlags = []string{"-a", "-l", "-d", "-s", "-t", "-m", "-x", "-u", "-p", "-b", "-g", "-e", "-k", "-y", "-v"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   gRPC bind address
//	-l string   HTTP bind address
//	-d string   PostgreSQL DSN
//	-s string   service token HMAC secret
//	-t int      service token validity, minutes
//	-m string   broker API base URL
//	-x string   build service base URL
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-k string   artifact object key prefix
//	-y int      download URL expiry, seconds
//	-v string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "l", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ServiceSecret, "s", config.ServiceSecret, "service token secret")
	tokenValidity := fs.Int("t", int(config.ServiceTokenValidity.Minutes()), "service token validity (in minutes)")

	fs.StringVar(&config.BrokerURL, "m", config.BrokerURL, "broker API base URL")
	fs.StringVar(&config.BuilderURL, "x", config.BuilderURL, "build service base URL")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.ObjectKeyPrefix, "k", config.ObjectKeyPrefix, "artifact object key prefix")
	expiry := fs.Int("y", int(config.DownloadURLExpiry.Seconds()), "download URL expiry (in seconds)")

	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ServiceTokenValidity = time.Duration(*tokenValidity) * time.Minute
	config.DownloadURLExpiry = time.Duration(*expiry) * time.Second
}
