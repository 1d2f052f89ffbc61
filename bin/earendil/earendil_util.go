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

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edk0/earendil/compiler"
	"github.com/edk0/earendil/schema"
	"github.com/edk0/earendil/syntax"
)

// diagnostic is the common shape of compiler errors and warnings.
type diagnostic interface {
	Error() string
	Span() syntax.Span
	Verb() string
}

func formatDiagnostic(path string, d diagnostic) string {
	var b strings.Builder
	span := d.Span()
	fmt.Fprintf(&b, "%s:%d:%d: ", path, span.Line(), span.Col())
	if verb := d.Verb(); verb != "" {
		fmt.Fprintf(&b, "(verb %s) ", verb)
	}
	b.WriteString(d.Error())
	return b.String()
}

func printDiagnostics(w io.Writer, path string, result *compiler.CompileResult) {
	for _, warn := range result.Warnings {
		fmt.Fprintln(w, formatDiagnostic(path, warn))
	}
	for _, err := range result.Errors {
		fmt.Fprintln(w, formatDiagnostic(path, err))
	}
}

// compileFile parses and validates the description at path. The error is
// non-nil only when the file could not be read or parsed at all.
func compileFile(path string, allowWarnings bool) (compiler.CompileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return compiler.CompileResult{}, err
	}
	parsed, err := syntax.Parse(src)
	if err != nil {
		return compiler.CompileResult{}, fmt.Errorf("%s: %w", path, err)
	}
	var opts []compiler.CompileOption
	if allowWarnings {
		opts = append(opts, compiler.WithWarningsAllowed())
	}
	return compiler.Compile(parsed, opts...), nil
}

// artifactFormat picks an IR artifact format from a file extension.
func artifactFormat(path string, fallback schema.Format) schema.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return schema.FormatJSON
	case ".yaml", ".yml":
		return schema.FormatYAML
	}
	return fallback
}

// loadDescription reads an IR artifact, or compiles a description when the
// path ends in ".txt".
func loadDescription(path string, allowWarnings bool) (*schema.Description, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		result, err := compileFile(path, allowWarnings)
		if err != nil {
			return nil, err
		}
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return result.Description(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schema.Decode(data, artifactFormat(path, schema.FormatJSON))
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(data)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
