package integrations

import (
	"net/http"
	"strings"
)

// HasNext reports whether the RFC 5988 Link header of h advertises a
// rel="next" relation. GitHub paginated listings only carry the header when
// more than one page exists, so an absent header means "last page".
func HasNext(h http.Header) bool {
	return LinkURL(h, "next") != ""
}

// LinkURL extracts the URL with the given rel from the Link header(s) in h.
// Returns empty string if no such relation is present.
//
// Format: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func LinkURL(h http.Header, rel string) string {
	for _, header := range h.Values("Link") {
		for _, part := range strings.Split(header, ",") {
			segments := strings.Split(strings.TrimSpace(part), ";")
			if len(segments) < 2 {
				continue
			}
			urlPart := strings.TrimSpace(segments[0])
			if !strings.HasPrefix(urlPart, "<") || !strings.HasSuffix(urlPart, ">") {
				continue
			}
			for _, param := range segments[1:] {
				if hasRel(param, rel) {
					return urlPart[1 : len(urlPart)-1]
				}
			}
		}
	}
	return ""
}

// hasRel reports whether a Link parameter such as `rel="next last"` names rel.
func hasRel(param, rel string) bool {
	key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
	if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
		return false
	}
	value = strings.Trim(strings.TrimSpace(value), `"`)
	for _, r := range strings.Fields(value) {
		if strings.EqualFold(r, rel) {
			return true
		}
	}
	return false
}
