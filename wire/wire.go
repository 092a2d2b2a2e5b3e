// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire holds the shared protobuf-wire-format encode/decode
// primitives used by the overlay and consensusdata packages. Message
// shapes here are small and fixed, so they're encoded directly against
// google.golang.org/protobuf/encoding/protowire rather than through
// generated message types.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// AppendString appends a length-delimited string field, omitting it
// entirely when empty (proto3 field-presence semantics: the zero value
// is never written).
func AppendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// AppendStrings appends one length-delimited field per entry of ss,
// all under the same field number — the wire encoding of a repeated
// string field.
func AppendStrings(b []byte, num protowire.Number, ss []string) []byte {
	for _, s := range ss {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

// AppendVarint appends a varint field, omitting it when zero.
func AppendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendMessage appends an embedded message field, omitting it when nil.
func AppendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	if msg == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// Field is one decoded field handed to a Walk callback.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Raw    []byte // populated for BytesType: string, bytes, or submessage
	Varint uint64 // populated for VarintType
}

// Walk decodes b field by field in wire order, invoking fn for each. Any
// field type fn doesn't care about should simply be ignored by the
// callback; Walk itself skips types it doesn't know how to decode so
// forward-compatible extra fields never break an older reader.
func Walk(b []byte, fn func(Field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: bad varint: %w", protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(Field{Num: num, Type: typ, Varint: v}); err != nil {
				return err
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: bad bytes: %w", protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(Field{Num: num, Type: typ, Raw: v}); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: bad field: %w", protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
