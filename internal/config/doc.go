// Package config provides configuration structures and utilities for cluescrape.
// It defines the crawl target, request settings, output paths, and the
// optional YAML configuration file.
package config
