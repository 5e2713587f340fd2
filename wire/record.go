package wire

import (
	"math"
	"strconv"
	"strings"
)

// Record is the structured form of one !re reply block. Values are string,
// int64, float64 or bool.
type Record map[string]any

// ToRecords converts a decoded reply into one Record per !re block, in order.
//
// Empty words and !done are ignored. Each !re starts a block; other tags
// (!trap, !fatal) close the current block, and anything before the first !re
// is discarded. A !re block without attributes yields an empty Record.
func ToRecords(words []string) []Record {
	records := []Record{}

	var current Record
	for _, word := range words {
		switch word {
		case "", TagDone:
			continue
		case TagRe:
			current = Record{}
			records = append(records, current)
			continue
		case TagTrap, TagFatal:
			current = nil
			continue
		}

		if current == nil {
			continue
		}

		key, value, ok := SplitAttribute(word)
		if !ok {
			continue
		}
		setField(current, key, value)
	}

	return records
}

func setField(rec Record, key, value string) {
	if key == AttrID {
		rec["id"] = strings.TrimPrefix(value, "*")
		return
	}
	rec[camelCase(key)] = coerce(value)
}

// camelCase turns "bytes-in" into "bytesIn". Only a hyphen followed by a
// lowercase ASCII letter is folded, other hyphens are kept.
func camelCase(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '-' && i+1 < len(key) && key[i+1] >= 'a' && key[i+1] <= 'z' {
			b.WriteByte(key[i+1] - 'a' + 'A')
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// coerce converts syntactically unambiguous numbers and booleans.
func coerce(value string) any {
	switch value {
	case "":
		return value
	case "true":
		return true
	case "false":
		return false
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}

	if !isDecimal(value) {
		return value
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return value
	}
	return f
}

// isDecimal rejects the hex, infinity and NaN forms ParseFloat accepts.
func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == '-', c == '+', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}
