package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/nsw-daq/feconf"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// makeFileExist returns dir/filename, creating the directory and an empty
// file when missing. A leading "$HOME" in dir is expanded.
func makeFileExist(dir, filename string) (string, error) {
	if rest, ok := strings.CutPrefix(dir, "$HOME"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = home + rest
	}
	if err := os.MkdirAll(dir, 0775); err != nil {
		return "", err
	}
	fullname := filepath.Join(dir, filename)
	f, err := os.OpenFile(fullname, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0664)
	switch {
	case errors.Is(err, fs.ErrExist):
		return fullname, nil
	case err != nil:
		return "", err
	}
	return fullname, f.Close()
}

// defaultSections maps the document sections converted by default to their
// device kinds.
var defaultSections = map[string]string{
	"rocPllCoreAnalog": feconf.RocAnalog.String(),
	"rocCoreDigital":   feconf.RocDigital.String(),
	"tds":              feconf.Tds.String(),
	"artCore":          feconf.ArtCore.String(),
	"artPs":            feconf.ArtPs.String(),
}

func setDefaults() {
	viper.SetDefault("verbose", false)
	viper.SetDefault("sections", defaultSections)
	viper.SetDefault("output.hex", false)
}

// setupViper sets up the viper configuration manager: says where to find config
// files and the filename and suffix. Sets some defaults.
func setupViper(home string) error {
	setDefaults()

	dotFeconf := filepath.Join(home, ".feconf")
	const filename string = "config"
	const suffix string = ".yaml"
	if _, err := makeFileExist(dotFeconf, filename+suffix); err != nil {
		return err
	}

	viper.SetConfigName(filename)
	viper.AddConfigPath(filepath.FromSlash("/etc/feconf"))
	viper.AddConfigPath(dotFeconf)
	viper.AddConfigPath(".")
	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		return fmt.Errorf("error reading config file: %s", err)
	}
	return nil
}

// sectionKinds returns the configured section names, lower-cased because
// viper folds keys, with their device kinds.
func sectionKinds() (map[string]feconf.DeviceKind, error) {
	kinds := make(map[string]feconf.DeviceKind)
	for name, kindName := range viper.GetStringMapString("sections") {
		kind, err := feconf.ParseDeviceKind(kindName)
		if err != nil {
			return nil, fmt.Errorf("config key sections.%s: %w", name, err)
		}
		kinds[strings.ToLower(name)] = kind
	}
	return kinds, nil
}

// startLogger returns a logger writing to a rotating log file. The file is
// opened by lumberjack on first write.
func startLogger(filename string) *log.Logger {
	return log.New(&lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10,   // megabytes after which new file is created
		MaxBackups: 4,    // number of backups
		MaxAge:     180,  // days
		Compress:   true, // whether to gzip the backups
	}, "", log.LstdFlags)
}

// startLogging sends problems and updates to 2 log files under home.
func startLogging(home string) error {
	logdir := filepath.Join(home, ".feconf", "logs")
	problemname, err := makeFileExist(logdir, "problems.log")
	if err != nil {
		return err
	}
	logname, err := makeFileExist(logdir, "updates.log")
	if err != nil {
		return err
	}
	feconf.ProblemLogger = startLogger(problemname)
	feconf.UpdateLogger = startLogger(logname)
	return nil
}
