package internal

import (
	"bytes"
	"unicode/utf8"
)

// Version is the locbatch release version
const Version = "0.3.0"

// Abbreviate shortens s to at most max runes for log output, appending "..."
// when something was cut off
func Abbreviate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	return string(runes[:max]) + "..."
}

// UnescapeLineSeparators rewrites the \u2028 and \u2029 escapes that
// encoding/json always emits back into literal characters. Other escape
// sequences are copied unchanged, so an escaped backslash followed by
// "u2028" stays as it is.
func UnescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+5 < len(data) && string(data[i+1:i+5]) == "u202" && (data[i+5] == '8' || data[i+5] == '9') {
			r := rune(0x2028)
			if data[i+5] == '9' {
				r = 0x2029
			}
			out = utf8.AppendRune(out, r)
			i += 5
			continue
		}
		// copy the whole escape pair
		out = append(out, c)
		if i+1 < len(data) {
			i++
			out = append(out, data[i])
		}
	}
	return out
}
