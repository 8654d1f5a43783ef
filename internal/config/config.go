package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

type Application struct {
	Listen        string        `koanf:"listen"`
	Timezone      string        `koanf:"timezone"`
	WeekStart     string        `koanf:"weekstart"`
	Frontend      Frontend      `koanf:"frontend"`
	Database      Database      `koanf:"db"`
	Notifications Notifications `koanf:"notifications"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Notifications struct {
	Enabled bool `koanf:"enabled"`
	// Schedule is a cron spec, seconds field optional.
	Schedule      string `koanf:"schedule"`
	LookaheadDays int    `koanf:"lookaheaddays"`
}

func defaults() Application {
	return Application{
		Listen:    ":8181",
		Timezone:  "Asia/Tokyo",
		WeekStart: "sunday",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "jobcal",
			Pass:   "",
			Name:   "jobcal",
			Schema: "jobcal",
		},
		Notifications: Notifications{
			Enabled:       true,
			Schedule:      "@every 1m",
			LookaheadDays: 1,
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "JOBCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "JOBCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if _, err := app.Location(); err != nil {
		return Application{}, err
	}
	if _, err := app.FirstDayOfWeek(); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location is the display timezone every calendar date is evaluated in.
func (a Application) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

func (a Application) FirstDayOfWeek() (time.Weekday, error) {
	switch strings.ToLower(a.WeekStart) {
	case "", "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("invalid week start %q, expected sunday or monday", a.WeekStart)
	}
}
