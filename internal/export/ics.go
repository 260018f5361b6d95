package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/username/holiday-optimizer/internal/planner"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

const (
	DefaultProductID = "-//Holiday Optimizer//Plans//EN"
	DefaultName      = "Holiday plans"

	// maximum content line length in octets, excluding CRLF
	maxLineOctets = 75
)

// uidNamespace scopes the name-based event UIDs
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/username/holiday-optimizer"))

// ICSOptions controls calendar metadata
type ICSOptions struct {
	Name      string
	ProductID string
	// Stamp is written as DTSTAMP; zero means time.Now
	Stamp time.Time
}

// EventUID returns a stable UID for a plan: the same range always gets the
// same UID, so re-importing an export updates events instead of duplicating them.
func EventUID(plan planner.OptimizedPlan) string {
	name := dateutil.Key(plan.Range.Start) + "/" + dateutil.Key(plan.Range.End)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@holiday-optimizer"
}

// WriteICS writes plans as an iCalendar document of all-day events
func WriteICS(w io.Writer, plans []planner.OptimizedPlan, opts ICSOptions) error {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.ProductID == "" {
		opts.ProductID = DefaultProductID
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now()
	}
	stamp := opts.Stamp.UTC().Format("20060102T150405Z")

	bw := bufio.NewWriter(w)
	line := func(name, value string) {
		writeFolded(bw, name+":"+value)
	}

	line("BEGIN", "VCALENDAR")
	line("VERSION", "2.0")
	line("PRODID", opts.ProductID)
	line("CALSCALE", "GREGORIAN")
	line("METHOD", "PUBLISH")
	line("X-WR-CALNAME", escapeText(opts.Name))

	for _, plan := range plans {
		line("BEGIN", "VEVENT")
		line("UID", EventUID(plan))
		line("DTSTAMP", stamp)
		line("DTSTART;VALUE=DATE", plan.Range.Start.Format(icalDateLayout))
		line("DTEND;VALUE=DATE", plan.Range.End.AddDate(0, 0, 1).Format(icalDateLayout))
		line("SUMMARY", escapeText(Summary(plan)))
		line("DESCRIPTION", escapeText(Details(plan)))
		line("TRANSP", "OPAQUE")
		line("END", "VEVENT")
	}

	line("END", "VCALENDAR")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// writeFolded writes one content line, folding it at 75 octets without
// splitting a UTF-8 sequence. Continuation lines start with a space.
func writeFolded(w *bufio.Writer, s string) {
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		w.WriteString(s[:cut])
		w.WriteString("\r\n ")
		s = s[cut:]
		// the leading space counts toward the next line
		limit = maxLineOctets - 1
	}
	w.WriteString(s)
	w.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
