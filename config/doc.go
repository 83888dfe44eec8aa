// Package config loads configuration structs with Viper.
//
// A YAML/JSON/TOML file is read first (explicit path, or the first of
// ./config/<service>.yml, ./config/config.yml, ./<service>.yml, ./config.yml),
// then a .env file is loaded with godotenv, then every environment variable
// carrying the service prefix overrides file values:
//
//	var cfg di.Config
//	err := config.LoadConfig("scopedi", &cfg)  // SCOPEDI_MAX_DEPTH=32 -> max_depth
package config
