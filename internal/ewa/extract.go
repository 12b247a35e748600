package ewa

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/sells-group/ewa-cli/internal/kpi"
	"github.com/sells-group/ewa-cli/internal/model"
)

// topUpLookahead bounds the forward icon search of the final top-up pass.
const topUpLookahead = 12

// Extractor turns one EWA HTML document into raw DetailRecords. Source
// documents are inconsistently structured, so extraction is layered:
// a heading scan, a per-table row scan, and a final text-search top-up.
// The layers may detect the same KPI more than once; duplicates collapse
// in the reducer by taking the worst status.
type Extractor struct {
	tax *kpi.Taxonomy
}

// NewExtractor creates an Extractor over the given taxonomy.
func NewExtractor(tax *kpi.Taxonomy) *Extractor {
	return &Extractor{tax: tax}
}

// ExtractFile parses system and date from the filename, decodes the file
// (EWA exports are not always UTF-8), and extracts all detail records.
func (e *Extractor) ExtractFile(path, defaultSystem string) ([]model.DetailRecord, error) {
	system, date, err := model.ParseReportFilename(path, defaultSystem)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ewa: open %s", path)
	}
	defer func() { _ = f.Close() }()

	r, err := charset.NewReader(f, "text/html")
	if err != nil {
		return nil, eris.Wrapf(err, "ewa: detect charset %s", path)
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrapf(err, "ewa: parse %s", path)
	}

	return e.Extract(doc, system, date, filepath.Base(path)), nil
}

// Extract runs the three extraction tiers over a parsed document.
func (e *Extractor) Extract(doc *html.Node, system string, date time.Time, source string) []model.DetailRecord {
	var records []model.DetailRecord

	emit := func(section, label string, status model.Status) {
		records = append(records, model.DetailRecord{
			System:     system,
			ReportDate: date,
			Section:    section,
			Label:      label,
			Status:     status,
			SourceFile: source,
		})
	}

	e.extractHeadings(doc, emit)
	e.extractTables(doc, emit)
	e.topUp(doc, records, emit)

	return records
}

// extractHeadings handles KPIs represented as a titled icon with no
// surrounding table: any h1–h3 whose text contains a canonical KPI name
// verbatim is paired with the nearest following icon.
func (e *Extractor) extractHeadings(doc *html.Node, emit func(section, label string, status model.Status)) {
	names := e.tax.Names()
	for _, h := range findAll(doc, atom.H1, atom.H2, atom.H3) {
		text := strings.ToLower(collectText(h))
		if text == "" {
			continue
		}
		for _, name := range names {
			if !strings.Contains(text, strings.ToLower(name)) {
				continue
			}
			if status := detectForward(h, 0); status != model.StatusUnknown {
				emit(name, name, status)
			}
		}
	}
}

// extractTables scans every table: the section comes from the nearest
// preceding heading, the status from the first icon in the row (falling
// back to per-cell inline styles), and the label from the longest
// non-numeric cell text.
func (e *Extractor) extractTables(doc *html.Node, emit func(section, label string, status model.Status)) {
	for _, tbl := range findAll(doc, atom.Table) {
		section := FindSection(tbl)

		for _, tr := range findAll(tbl, atom.Tr) {
			cells := findAll(tr, atom.Td, atom.Th)
			if len(cells) == 0 {
				continue
			}

			status := rowStatus(tr, cells)
			if status == model.StatusUnknown {
				continue
			}

			emit(section, rowLabel(cells), status)
		}
	}
}

// rowStatus finds the first icon anywhere in the row that yields a color,
// then falls back to each cell's inline style.
func rowStatus(tr *html.Node, cells []*html.Node) model.Status {
	for _, img := range findAll(tr, atom.Img) {
		if s := DetectStatus(img); s != model.StatusUnknown {
			return s
		}
	}
	for _, td := range cells {
		if s := statusFromStyle(attr(td, "style")); s != model.StatusUnknown {
			return s
		}
	}
	return model.StatusUnknown
}

// rowLabel picks the most descriptive cell text: the longest candidate
// over 2 characters that is not purely numeric, else the first non-empty
// text, else the "(no label)" sentinel.
func rowLabel(cells []*html.Node) string {
	texts := make([]string, len(cells))
	for i, td := range cells {
		texts[i] = normalizeSpace(collectText(td))
	}

	label := ""
	for _, t := range texts {
		if len(t) > 2 && !isAllDigits(t) && len(t) > len(label) {
			label = t
		}
	}
	if label != "" {
		return label
	}

	for _, t := range texts {
		if t != "" {
			return t
		}
	}
	return model.NoLabel
}

// topUp checks every canonical KPI still missing from this document: if
// the KPI's exact name occurs anywhere in the text, the nearest adjacent
// icon or ancestor cell style decides its status.
func (e *Extractor) topUp(doc *html.Node, records []model.DetailRecord, emit func(section, label string, status model.Status)) {
	covered := make(map[string]bool)
	for _, r := range records {
		if name, ok := e.tax.Classify(r.Section, r.Label); ok {
			covered[name] = true
		}
	}

	for _, name := range e.tax.Names() {
		if covered[name] {
			continue
		}
		node := findTextNode(doc, strings.ToLower(name))
		if node == nil {
			continue
		}
		if status := nearestStatus(node); status != model.StatusUnknown {
			emit(name, name, status)
		}
	}
}

// findTextNode returns the first text node whose content contains needle
// (already lowercased), in document order.
func findTextNode(root *html.Node, needle string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.TextNode && strings.Contains(strings.ToLower(n.Data), needle) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

// nearestStatus looks forward a few nodes for an icon, then climbs the
// ancestor chain testing cell styles.
func nearestStatus(n *html.Node) model.Status {
	if s := detectForward(n, topUpLookahead); s != model.StatusUnknown {
		return s
	}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if s := statusFromStyle(attr(cur, "style")); s != model.StatusUnknown {
			return s
		}
	}
	return model.StatusUnknown
}

// detectForward scans forward in document order for an element the
// detector chain recognizes. limit 0 means unbounded.
func detectForward(n *html.Node, limit int) model.Status {
	steps := 0
	for cur := nextInDocument(n); cur != nil; cur = nextInDocument(cur) {
		if limit > 0 {
			steps++
			if steps > limit {
				return model.StatusUnknown
			}
		}
		if cur.Type != html.ElementNode {
			continue
		}
		if cur.DataAtom == atom.Img {
			if s := DetectStatus(cur); s != model.StatusUnknown {
				return s
			}
			continue
		}
		if s := statusFromStyle(attr(cur, "style")); s != model.StatusUnknown {
			return s
		}
	}
	return model.StatusUnknown
}
