// Package idcodec encodes ordered integer-id collections into the
// separator-joined string form used by the entity store, and back.
//
// The store has no native array type, so every `Keywords`-like field is
// kept as a single text column. The convention is strict:
//
//   - a nil collection maps to a nil string (stored as NULL), never "";
//   - a non-nil collection maps to ids joined by the separator, order kept.
package idcodec

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator between ids. Space for most fields.
const DefaultSeparator = " "

// Encode joins ids into a single string, preserving order.
//
// A nil slice yields a nil pointer. An empty (but non-nil) slice yields
// a pointer to the empty string.
func Encode(ids []int) *string {
	return EncodeSep(ids, DefaultSeparator)
}

// EncodeSep is Encode with an explicit separator.
func EncodeSep(ids []int, sep string) *string {
	if ids == nil {
		return nil
	}
	parts := make([]string, len(ids))
	for nth, id := range ids {
		parts[nth] = strconv.Itoa(id)
	}
	joined := strings.Join(parts, sep)
	return &joined
}

// Decode parses a stored id string back into a slice.
//
// A nil pointer yields a nil slice. Tokens which are not integers cause
// an error naming the offending token.
func Decode(encoded *string) ([]int, error) {
	return DecodeSep(encoded, DefaultSeparator)
}

// DecodeSep is Decode with an explicit separator.
func DecodeSep(encoded *string, sep string) ([]int, error) {
	if encoded == nil {
		return nil, nil
	}
	if *encoded == "" {
		return []int{}, nil
	}

	parts := strings.Split(*encoded, sep)
	ids := make([]int, len(parts))
	for nth, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("id list contains non-integer %q: %w", p, err)
		}
		ids[nth] = id
	}
	return ids, nil
}
