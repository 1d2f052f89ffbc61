// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

// Package config loads the optional TOML configuration of the earendil
// command.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/edk0/earendil/codec"
	"github.com/edk0/earendil/schema"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "EARENDIL_CONFIG"

type Config struct {
	// Format of written IR artifacts.
	Format schema.Format

	// Text transforms str and channel fields when decoding lines.
	Text codec.TextCodec

	// PluginPath lists directories searched for render plugins.
	PluginPath []string

	LogLevel zerolog.Level

	// AllowWarnings lets a description with warnings but no errors
	// produce IR.
	AllowWarnings bool
}

func Default() Config {
	return Config{
		Format:   schema.FormatJSON,
		Text:     codec.UTF8,
		LogLevel: zerolog.InfoLevel,
	}
}

type fileConfig struct {
	Format     string   `toml:"format"`
	Text       string   `toml:"text"`
	PluginPath []string `toml:"plugin_path"`
	LogLevel   string   `toml:"log_level"`
	AllowWarns bool     `toml:"allow_warnings"`
}

// Load reads the config file at path. An empty path falls back to
// $EARENDIL_CONFIG, and if that is also empty the defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML config text over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("format") {
		format, err := schema.ParseFormat(strings.TrimSpace(raw.Format))
		if err != nil {
			return Config{}, fmt.Errorf("parse format: %w", err)
		}
		cfg.Format = format
	}

	if meta.IsDefined("text") {
		tc, err := codec.ParseTextCodec(strings.TrimSpace(raw.Text))
		if err != nil {
			return Config{}, fmt.Errorf("parse text: %w", err)
		}
		cfg.Text = tc
	}

	if meta.IsDefined("plugin_path") {
		cfg.PluginPath = normalizePaths(raw.PluginPath)
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("allow_warnings") {
		cfg.AllowWarnings = raw.AllowWarns
	}

	return cfg, nil
}

func normalizePaths(in []string) []string {
	out := make([]string, 0, len(in))
	for _, dir := range in {
		v := strings.TrimSpace(dir)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
