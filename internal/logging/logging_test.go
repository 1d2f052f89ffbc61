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

package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/edk0/earendil/internal/logging"
	"github.com/edk0/earendil/internal/testutil"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New("earendil", zerolog.InfoLevel, &buf)

	logger.Debug().Msg("hidden")
	testutil.ExpectEq(t, "", buf.String())

	logger.Info().Str("file", "irc.txt").Msg("compiled")
	testutil.ExpectMatch(t, `^\d{4}-\d\d-\d\dT\S+ INF compiled app=earendil file=irc.txt\n$`, buf.String())
}
