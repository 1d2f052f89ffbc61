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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/edk0/earendil/schema"
)

type cmdRender struct {
	g *globals

	outPath    string
	plugin     string
	pluginPath string
}

func (*cmdRender) help() *commandHelp {
	return &commandHelp{
		usage:   "render --plugin NAME IR",
		summary: "Run a render plugin over an IR artifact",
	}
}

func (cmd *cmdRender) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default stdout)")
	flags.StringVar(&cmd.plugin, "plugin", "", "plugin name, loaded from earendil-render-NAME.wasm")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "plugin directories, separated by "+string(filepath.ListSeparator))
}

func (cmd *cmdRender) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintln(os.Stderr, "usage: earendil render --plugin NAME IR")
		return 1
	}
	if cmd.plugin == "" {
		fmt.Fprintln(os.Stderr, "No plugin specified (set --plugin=)")
		return 1
	}

	desc, err := loadDescription(argv[0], cmd.g.config.AllowWarnings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	request, err := schema.EncodeJSON(desc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	pluginFile, err := locatePlugin(cmd.plugin, cmd.searchPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	pluginBin, err := os.ReadFile(pluginFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cmd.g.log.Debug().Str("plugin", pluginFile).Int("request-bytes", len(request)).Msg("starting render plugin")

	output, err := runPlugin(ctx, pluginBin, request)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := writeOutput(cmd.outPath, output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func (cmd *cmdRender) searchPath() []string {
	if cmd.pluginPath != "" {
		return filepath.SplitList(cmd.pluginPath)
	}
	if env := os.Getenv("EARENDIL_PLUGIN_PATH"); env != "" {
		return filepath.SplitList(env)
	}
	return cmd.g.config.PluginPath
}

func locatePlugin(name string, dirs []string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("Invalid plugin name %q", name)
	}
	if len(dirs) == 0 {
		return "", errors.New("No plugin path set, use --plugin-path= or $EARENDIL_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("earendil-render-%s.wasm", name)
	for _, dir := range dirs {
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Render plugin %s not found in plugin path", basename)
}

// pluginError is the error message a plugin reported with a non-zero
// return code.
type pluginError struct {
	message string
}

func (err *pluginError) Error() string {
	return "render plugin failed: " + err.message
}

// runPlugin instantiates a render plugin and passes it request. The plugin
// exports earendil_render_allocate(len) -> ptr and
// earendil_render(req_ptr, req_len, resp_ptr_ptr) -> rc, and writes the
// address of a little-endian u32 length followed by the response bytes to
// resp_ptr_ptr.
func runPlugin(ctx context.Context, pluginBin, request []byte) ([]byte, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, err
	}
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, wasm.NewModuleConfig())
	if err != nil {
		return nil, err
	}
	return callPlugin(ctx, plugin, request)
}

func callPlugin(ctx context.Context, plugin api.Module, request []byte) ([]byte, error) {
	mem := plugin.Memory()
	wasmAlloc := plugin.ExportedFunction("earendil_render_allocate")
	wasmRender := plugin.ExportedFunction("earendil_render")
	if mem == nil || wasmAlloc == nil || wasmRender == nil {
		return nil, errors.New("Plugin does not export the earendil render interface")
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(request)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, request) {
		return nil, errors.New("Failed to write render request")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmRender.Call(ctx, uint64(requestPtr), uint64(len(request)), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint32(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("Failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errors.New("Failed to read response length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errors.New("Failed to read response")
	}
	response := append([]byte(nil), responseBuf...)

	if rc != 0 {
		return nil, &pluginError{message: strings.TrimRight(string(response), "\r\n")}
	}
	return response, nil
}
