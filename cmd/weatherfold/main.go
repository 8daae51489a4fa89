// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the weatherfold command line client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/weatherfold/internal/config"
	"github.com/wneessen/weatherfold/internal/i18n"
	"github.com/wneessen/weatherfold/internal/logger"
	"github.com/wneessen/weatherfold/internal/service"
	"github.com/wneessen/weatherfold/internal/weather"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// API keys may be kept in a .env file next to the binary
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("failed to load .env file", logger.Err(err))
	}

	confPath := flag.String("config", "", "path to the config file")
	src := flag.String("source", "", "weather source: accu, china, metno, mf, openmeteo or owm")
	lat := flag.Float64("lat", 0, "latitude of the location")
	lon := flag.Float64("lon", 0, "longitude of the location")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [place name]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("weatherfold %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize weatherfold service", logger.Err(err))
		os.Exit(1)
	}

	req := service.Request{
		Query:     strings.Join(flag.Args(), " "),
		Latitude:  *lat,
		Longitude: *lon,
		Source:    weather.Source(*src),
	}
	if req.Query == "" && *lat == 0 && *lon == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log.Debug("starting weather lookup", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx, req); err != nil {
		log.Error(t.Get("weather request failed"), logger.Err(err))
		os.Exit(1)
	}
}

// loadConfig reads the given config file, the default config file or the
// environment, in this order.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "weatherfold", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
