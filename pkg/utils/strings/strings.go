package strings

import "strings"

// like strings.Split(s, sep), but return empty slice when s == ""
func SplitIfNotEmpty(s string, sep string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, sep)
}

// `TrimPrefixAll` returns string `s` without provided `prefix`es.
// If `prefix`es are repeated, all of them are removed.
//
// example:
//      TrimPrefixAll("aaabbbccc", "aaab")  // -> "bbccc" : prefix is trimmed
//      TrimPrefixAll("aaabbbccc", "a")     // -> "bbbccc" : prefix is trimmed repeatedly
//      TrimPrefixAll("aaabbccc", "x")      // -> "aaabbbccc" : if no prefix is found, `s` is returned unchanged
//
func TrimPrefixAll(s, prefix string) string {
	lp := len(prefix)

	for strings.HasPrefix(s, prefix) {
		s = s[lp:]
	}
	return s
}

// supply suffix if text has not.
//
// return:
//
//     text same as input when that has suffix.
//     otherwise, text + suffix.
func SuppySuffix(text, suffix string) string {
	if strings.HasSuffix(text, suffix) {
		return text
	}
	return text + suffix
}
