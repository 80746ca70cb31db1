// Package config provides configuration structures and utilities for edureport.
// It resolves credentials and school subdomains from the environment (after
// loading a .env file), parses the --date flag, and validates everything
// before the first portal request is made.
package config
