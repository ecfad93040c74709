package lawgrid

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const lawPrefix = "law_"

// PrettyName turns an internal key like "law_free_trade" into "Free trade".
func PrettyName(key string) string {
	s := strings.TrimPrefix(key, lawPrefix)
	s = strings.ToLower(strings.ReplaceAll(s, "_", " "))
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
