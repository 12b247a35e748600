package ewa

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// sectionLookback bounds the backward search for a section heading.
// Unbounded search over a whole document would attach stale context from
// unrelated earlier sections.
const sectionLookback = 6

// FindSection walks backward from n toward the document start and returns
// the normalized text of the nearest preceding heading (h1–h4). At most
// sectionLookback heading/caption candidates are examined. A caption is
// an acceptable fallback when no heading turns up inside the window.
// Returns "" when nothing usable is found.
func FindSection(n *html.Node) string {
	caption := ""
	seen := 0

	for cur := prevInDocument(n); cur != nil && seen < sectionLookback; cur = prevInDocument(cur) {
		if cur.Type != html.ElementNode {
			continue
		}

		if isHeading(cur) {
			seen++
			if t := normalizeSpace(collectText(cur)); t != "" {
				return t
			}
			continue
		}

		if cur.DataAtom == atom.Caption {
			seen++
			if caption == "" {
				caption = normalizeSpace(collectText(cur))
			}
		}
	}

	return caption
}
