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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edk0/earendil/codec"
	"github.com/edk0/earendil/internal/config"
	"github.com/edk0/earendil/internal/testutil"
	"github.com/edk0/earendil/schema"
)

func TestParseOverrides(t *testing.T) {
	cfg, err := config.Parse(`
format = "yaml"
text = "utf-8+latin-1"
plugin_path = ["/usr/lib/earendil", " ", "plugins"]
log_level = "debug"
allow_warnings = true
`)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.FormatYAML, cfg.Format)
	testutil.ExpectEq(t, "utf-8+latin-1", cfg.Text.Name())
	testutil.ExpectSliceEq(t, []string{"/usr/lib/earendil", "plugins"}, cfg.PluginPath)
	testutil.ExpectEq(t, zerolog.DebugLevel, cfg.LogLevel)
	testutil.ExpectTrue(t, cfg.AllowWarnings)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse(`allow_warnings = false`)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.FormatJSON, cfg.Format)
	testutil.ExpectEq(t, codec.UTF8, cfg.Text)
	testutil.ExpectEq(t, 0, len(cfg.PluginPath))
	testutil.ExpectEq(t, zerolog.InfoLevel, cfg.LogLevel)
	testutil.ExpectFalse(t, cfg.AllowWarnings)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		`format = "xml"`,
		`text = "ebcdic"`,
		`log_level = "loud"`,
		`colour = true`,
		`format = `,
	} {
		_, err := config.Parse(src)
		if err == nil {
			t.Errorf("Parse(%q): expected error", src)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "earendil.toml")
	testutil.AssertNoError(t, os.WriteFile(path, []byte(`format = "yml"`), 0o644))

	cfg, err := config.Load(path)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.FormatYAML, cfg.Format)

	t.Setenv(config.EnvPath, path)
	cfg, err = config.Load("")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.FormatYAML, cfg.Format)

	t.Setenv(config.EnvPath, "")
	cfg, err = config.Load("")
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, schema.FormatJSON, cfg.Format)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	testutil.AssertError(t, err)
}
