package model

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

var (
	// EWA HTML exports embed the system ID as "EWA_<SID>~..." and the
	// report date as the first run of 8 digits (YYYYMMDD).
	htmlSystemRe = regexp.MustCompile(`EWA_([^~]+)~`)
	htmlDateRe   = regexp.MustCompile(`(\d{8})`)

	// Word reports look like "A1C_21277797_850764463_2025-11-24_R_EWA.docx".
	docxDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ParseReportFilename extracts the system ID and report date from an EWA
// HTML export filename. The system segment is optional and falls back to
// defaultSystem; a missing date token is an error and the file is skipped
// by the caller.
func ParseReportFilename(name, defaultSystem string) (string, time.Time, error) {
	base := filepath.Base(name)

	system := defaultSystem
	if m := htmlSystemRe.FindStringSubmatch(base); m != nil {
		system = m[1]
	}

	m := htmlDateRe.FindStringSubmatch(base)
	if m == nil {
		return "", time.Time{}, eris.Errorf("model: no date token in filename %q", base)
	}
	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return "", time.Time{}, eris.Wrapf(err, "model: bad date token in filename %q", base)
	}

	return system, date, nil
}

// ParseDocxFilename extracts the system ID and report date from a legacy
// Word report filename. The system is the first underscore-delimited
// segment; the date is an ISO YYYY-MM-DD token.
func ParseDocxFilename(name string) (string, time.Time, error) {
	base := filepath.Base(name)

	system, _, _ := strings.Cut(base, "_")
	if system == "" {
		return "", time.Time{}, eris.Errorf("model: no system segment in filename %q", base)
	}

	tok := docxDateRe.FindString(base)
	if tok == "" {
		return "", time.Time{}, eris.Errorf("model: no date token in filename %q", base)
	}
	date, err := time.Parse("2006-01-02", tok)
	if err != nil {
		return "", time.Time{}, eris.Wrapf(err, "model: bad date token in filename %q", base)
	}

	return system, date, nil
}
