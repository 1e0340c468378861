package autolink

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<(/?)([A-Za-z][A-Za-z0-9]*)[^>]*>`)

// guarded elements have bodies the string path never touches.
var guarded = map[string]bool{"a": true, "script": true, "style": true}

// protectedRegions returns the byte ranges of s where no name may be linked:
// every tag, and the body of every a, script or style element, found by
// counting opening against closing tags. An unclosed element protects the
// rest of the string.
//
// script and style bodies are skipped up to their close tag without
// looking for tags inside, since they routinely contain "<".
func protectedRegions(s string) []span {
	var regions []span
	depth := 0
	bodyStart := 0
	lower := asciiLower(s)

	for pos := 0; pos < len(s); {
		loc := tagPattern.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		closing := loc[3] > loc[2]
		name := lower[pos+loc[4] : pos+loc[5]]
		pos = end

		regions = append(regions, span{start: start, end: end})
		if !guarded[name] || strings.HasSuffix(s[start:end], "/>") {
			continue
		}

		if closing {
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				regions = append(regions, span{start: bodyStart, end: start})
			}
			continue
		}

		if depth == 0 {
			bodyStart = end
		}
		depth++

		if name != "a" {
			closeAt := strings.Index(lower[pos:], "</"+name)
			if closeAt < 0 {
				break
			}
			pos += closeAt
		}
	}

	if depth > 0 {
		regions = append(regions, span{start: bodyStart, end: len(s)})
	}
	return regions
}

// asciiLower lowercases ASCII letters only, keeping byte offsets aligned with s.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
