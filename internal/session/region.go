package session

import "strings"

// RegionID is the element spliced in on a partial refresh: the catalog
// panel, the only part of the page a filter or page change redraws.
const RegionID = "product-panel"

// ExtractRegion returns the outer HTML of the div carrying the given
// id, by balancing nested div tags from its opening tag. ok is false
// when the region is absent or the markup is truncated, in which case
// the caller falls back to a full navigation.
func ExtractRegion(page, id string) (string, bool) {
	marker := `id="` + id + `"`
	for from := 0; ; {
		at := strings.Index(page[from:], marker)
		if at < 0 {
			return "", false
		}
		at += from
		from = at + len(marker)

		// A real id attribute is preceded by whitespace; this skips
		// lookalikes such as data-id="...".
		if at == 0 || !isSpace(page[at-1]) {
			continue
		}

		open := lastDivTag(page, at)
		if open < 0 {
			continue
		}
		// The attribute must sit inside that tag's own brackets,
		// otherwise the id belongs to some non-div element.
		if strings.IndexByte(page[open:at], '>') >= 0 {
			continue
		}
		return balanceDivs(page[open:])
	}
}

// balanceDivs consumes div tags from the region's opening tag until its
// matching close, returning the spanned markup.
func balanceDivs(rest string) (string, bool) {
	depth := 0
	pos := 0
	for {
		nextOpen := nextDivTag(rest[pos:])
		nextClose := strings.Index(rest[pos:], "</div>")
		if nextClose < 0 {
			return "", false
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos += nextOpen + len("<div")
			continue
		}
		depth--
		pos += nextClose + len("</div>")
		if depth == 0 {
			return rest[:pos], true
		}
	}
}

// nextDivTag finds the next "<div" that starts an actual div tag, i.e.
// followed by whitespace or '>'. Tags like <divider> do not count.
func nextDivTag(s string) int {
	for i := 0; ; {
		j := strings.Index(s[i:], "<div")
		if j < 0 {
			return -1
		}
		end := i + j + len("<div")
		if end >= len(s) || isTagBoundary(s[end]) {
			return i + j
		}
		i = end
	}
}

// lastDivTag finds the last div opening tag before offset at, with the
// same tag-boundary check as nextDivTag.
func lastDivTag(page string, at int) int {
	for end := at; ; {
		j := strings.LastIndex(page[:end], "<div")
		if j < 0 {
			return -1
		}
		boundary := j + len("<div")
		if boundary >= len(page) || isTagBoundary(page[boundary]) {
			return j
		}
		end = j
	}
}

func isTagBoundary(c byte) bool {
	return c == '>' || isSpace(c)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
