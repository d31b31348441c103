// Package main provides the contracts CLI for inspecting settings.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ag-ui/go-contracts/pkg/settings"
)

const usage = `contracts-cli - inspect runtime contract settings

Usage:
  contracts-cli [command] [flags]

Available Commands:
  settings  Resolve and print the settings snapshot for a scope
  keys      List the setting keys and their environment variables
  help      Show help information

Flags for settings:
  -config string  YAML settings file (global and scopes sections)
  -scope string   scope to resolve
  -env            read CONTRACTS_* environment variables and .env (default true)
  -set key=value  call-site override, may be repeated
  -v              debug logging
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.WithError(err).Error("contracts-cli failed")
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}

	switch args[0] {
	case "settings":
		return runSettings(args[1:], out)
	case "keys":
		for _, key := range settings.Keys() {
			fmt.Fprintf(out, "%-18s %s\n", key, settings.EnvVar(key))
		}
		return nil
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func runSettings(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "YAML settings file")
	scope := fs.String("scope", "", "scope to resolve")
	useEnv := fs.Bool("env", true, "read CONTRACTS_* environment variables")
	verbose := fs.Bool("v", false, "debug logging")
	overrides := settings.Overrides{}
	fs.Func("set", "call-site override key=value", func(s string) error {
		key, value, err := settings.ParseAssignment(s)
		if err != nil {
			return err
		}
		overrides[key] = value
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	src := settings.NewSource(settings.WithLogger(logger))
	if *configPath != "" {
		if err := settings.LoadFile(src, *configPath); err != nil {
			return err
		}
	}
	if *useEnv {
		if err := settings.LoadEnv(src); err != nil {
			return err
		}
	}

	resolved, err := src.Resolve(*scope, overrides)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	if err := enc.Encode(resolved); err != nil {
		return err
	}
	return enc.Close()
}
