package ewa

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/sells-group/ewa-cli/internal/model"
)

// The detectors below form an ordered first-match chain: each one is a
// pure function over a single element, and the first non-unknown result
// wins. An element no detector understands stays StatusUnknown and the
// caller skips it; defaulting to a color here would corrupt the severity
// reduction downstream.
type detector func(n *html.Node) model.Status

var detectors = []detector{
	detectAttrText,
	detectSrcPattern,
	detectInlineStyle,
	detectClassName,
}

// DetectStatus runs the detector chain over an icon-like element or a
// styled cell.
func DetectStatus(n *html.Node) model.Status {
	if n == nil || n.Type != html.ElementNode {
		return model.StatusUnknown
	}
	for _, d := range detectors {
		if s := d(n); s != model.StatusUnknown {
			return s
		}
	}
	return model.StatusUnknown
}

// Keyword sets for the attribute-text detector. RED is always checked
// first: when a text ambiguously names several colors the pessimistic
// reading wins.
var (
	redWords    = []string{"red", "critical", "high", "severe"}
	yellowWords = []string{"yellow", "warn", "warning", "medium"}
	greenWords  = []string{"green", "ok", "good", "healthy", "normal", "low", "success"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// statusFromKeywords resolves a lowercase text against the keyword sets,
// worst severity first.
func statusFromKeywords(text string) model.Status {
	switch {
	case containsAny(text, redWords):
		return model.StatusRed
	case containsAny(text, yellowWords):
		return model.StatusYellow
	case containsAny(text, greenWords):
		return model.StatusGreen
	default:
		return model.StatusUnknown
	}
}

// detectAttrText inspects the element's alt, title and src attributes as
// one lowercase string.
func detectAttrText(n *html.Node) model.Status {
	text := strings.ToLower(attr(n, "alt") + " " + attr(n, "title") + " " + attr(n, "src"))
	if strings.TrimSpace(text) == "" {
		return model.StatusUnknown
	}
	return statusFromKeywords(text)
}

// Filename conventions used by the report generator for its icon assets.
var (
	redFilePatterns    = []string{"red.png", "_red", "red.gif", "traffic_light_red"}
	yellowFilePatterns = []string{"yellow.png", "_yellow", "yellow.gif", "traffic_light_yellow"}
	greenFilePatterns  = []string{"green.png", ".green.", "_green", "green.gif", "traffic_light_green"}
)

// detectSrcPattern falls back to explicit icon-filename conventions when
// the attribute text said nothing.
func detectSrcPattern(n *html.Node) model.Status {
	src := strings.ToLower(attr(n, "src"))
	if src == "" {
		return model.StatusUnknown
	}
	switch {
	case containsAny(src, redFilePatterns):
		return model.StatusRed
	case containsAny(src, yellowFilePatterns):
		return model.StatusYellow
	case containsAny(src, greenFilePatterns):
		return model.StatusGreen
	default:
		return model.StatusUnknown
	}
}

var (
	rgbRe = regexp.MustCompile(`rgb\(\s*([\d\s,]+?)\s*\)`)
	hexRe = regexp.MustCompile(`#([0-9a-f]{6})`)
)

// Exact color values the report generator emits for its traffic lights.
var (
	rgbStatuses = map[string]model.Status{
		"255,0,0":   model.StatusRed,
		"255,255,0": model.StatusYellow,
		"0,128,0":   model.StatusGreen,
		"0,176,80":  model.StatusGreen,
	}
	hexStatuses = map[string]model.Status{
		"ff0000": model.StatusRed,
		"ffff00": model.StatusYellow,
		"00b050": model.StatusGreen,
		"008000": model.StatusGreen,
		"00ff00": model.StatusGreen,
	}
)

// detectInlineStyle reads the element's inline style: an rgb() triple or
// a 6-digit hex color mapped against the generator's known values, then a
// color-word search when a background-color is declared.
func detectInlineStyle(n *html.Node) model.Status {
	return statusFromStyle(attr(n, "style"))
}

func statusFromStyle(style string) model.Status {
	if style == "" {
		return model.StatusUnknown
	}
	s := strings.ToLower(style)

	if m := rgbRe.FindStringSubmatch(s); m != nil {
		triple := strings.ReplaceAll(strings.ReplaceAll(m[1], " ", ""), "\t", "")
		if st, ok := rgbStatuses[triple]; ok {
			return st
		}
	}

	if m := hexRe.FindStringSubmatch(s); m != nil {
		if st, ok := hexStatuses[m[1]]; ok {
			return st
		}
	}

	if strings.Contains(s, "background-color") {
		switch {
		case strings.Contains(s, "red"):
			return model.StatusRed
		case strings.Contains(s, "yellow"):
			return model.StatusYellow
		case strings.Contains(s, "green"):
			return model.StatusGreen
		}
	}

	return model.StatusUnknown
}

// Fixed class tokens from the report generator's stylesheet.
var classTokenStatuses = map[string]model.Status{
	"sa-red":    model.StatusRed,
	"sa-yellow": model.StatusYellow,
	"sa-green":  model.StatusGreen,
}

// detectClassName matches the generator's fixed status classes, then
// plain color-word class tokens. Generic words are matched as whole
// tokens only: substring matching would turn "bordered" into RED.
func detectClassName(n *html.Node) model.Status {
	classes := strings.Fields(strings.ToLower(attr(n, "class")))
	if len(classes) == 0 {
		return model.StatusUnknown
	}

	// Fixed tokens first, worst severity first within each pass.
	for _, want := range []string{"sa-red", "sa-yellow", "sa-green"} {
		for _, c := range classes {
			if strings.Contains(c, want) {
				return classTokenStatuses[want]
			}
		}
	}

	for _, want := range []string{"red", "yellow", "green"} {
		for _, c := range classes {
			if c == want {
				st, _ := model.ParseStatus(want)
				return st
			}
		}
	}

	return model.StatusUnknown
}
