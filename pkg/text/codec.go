// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when no encoding is configured
const DefaultEncoding = "utf-8"

// 🔤 DecodingError reports file bytes that are not valid in the configured encoding
type DecodingError struct {
	Encoding string
	Offset   int
	Err      error
}

func (e *DecodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %s at byte %d: %v", e.Encoding, e.Offset, e.Err)
	}
	return fmt.Sprintf("decoding %s: invalid byte sequence at offset %d", e.Encoding, e.Offset)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// Codec converts between file bytes and text in a named encoding
type Codec struct {
	name string
	enc  encoding.Encoding
}

// NewCodec looks up an encoding by its WHATWG/IANA label
func NewCodec(name string) (*Codec, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultEncoding
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", name, err)
	}

	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}

	return &Codec{name: canonical, enc: enc}, nil
}

// Name returns the canonical encoding name
func (c *Codec) Name() string {
	return c.name
}

func (c *Codec) isUTF8() bool {
	return c.name == DefaultEncoding || c.enc == unicode.UTF8
}

// Decode turns raw file bytes into text
func (c *Codec) Decode(data []byte) (string, error) {
	if c.isUTF8() {
		if off := invalidUTF8Offset(data); off >= 0 {
			return "", &DecodingError{Encoding: c.name, Offset: off}
		}
		return string(data), nil
	}

	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodingError{Encoding: c.name, Err: err}
	}
	return string(out), nil
}

// Encode turns text back into bytes for writing
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.isUTF8() {
		return []byte(s), nil
	}

	out, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return out, nil
}

func invalidUTF8Offset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
