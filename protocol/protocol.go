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

// Package protocol bundles a description of the IRC client protocol.
package protocol

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/edk0/earendil/codec"
	"github.com/edk0/earendil/compiler"
	"github.com/edk0/earendil/schema"
	"github.com/edk0/earendil/syntax"
)

//go:embed irc.txt
var source []byte

var (
	once        sync.Once
	description *schema.Description
)

// Source returns the description text.
func Source() []byte {
	return source
}

// Description returns the compiled description. It panics if the bundled
// text does not compile.
func Description() *schema.Description {
	once.Do(func() {
		file, err := syntax.Parse(source)
		if err != nil {
			panic(fmt.Sprintf("protocol: %v", err))
		}
		result := compiler.Compile(file)
		if err := result.Err(); err != nil {
			panic(fmt.Sprintf("protocol: %v", err))
		}
		description = result.Description()
	})
	return description
}

// Codec returns a codec over the compiled description.
func Codec(opts ...codec.Option) *codec.Codec {
	return codec.New(Description(), opts...)
}
