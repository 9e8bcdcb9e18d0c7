// Package config loads service configuration with Viper.
//
// The first config.yml found in the standard locations provides the base
// values. A .env file is loaded into the process environment, and
// environment variables override the file: FGA_BASE_URL lands on
// fga.base_url. WithEnvRoots restricts which variables may do so.
//
//	var cfg MyConfig
//	err := config.LoadConfig("catalog", &cfg,
//	    config.WithConfigFile("./config.yml"),
//	    config.WithEnvRoots("fga"),
//	)
package config
