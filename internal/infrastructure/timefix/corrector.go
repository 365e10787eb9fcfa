package timefix

import (
	"regexp"
	"strings"
	"time"
)

// Corrector reinterprets model-emitted timestamps. The model is asked
// for ISO-8601 with an offset but routinely emits "15:00Z" when the
// user said "3pm" local time, so a bare or Z-suffixed timestamp is
// treated as wall-clock in the user's IANA zone and re-anchored to the
// correct UTC instant. All local-day and local-to-UTC conversions in
// the service go through this type.
type Corrector struct{}

func New() *Corrector {
	return &Corrector{}
}

const canonicalUTC = "2006-01-02T15:04:05.000Z"

var trailingOffset = regexp.MustCompile(`[+-]\d{2}:\d{2}$`)

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CorrectToUTC never fails: any timestamp it cannot interpret is
// returned unchanged.
func (c *Corrector) CorrectToUTC(raw, timezone string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	// An explicit numeric offset is trusted as-is.
	if trailingOffset.MatchString(trimmed) && !strings.HasSuffix(trimmed, "Z") {
		return raw
	}

	naive := strings.TrimSuffix(trimmed, "Z")
	if dot := strings.Index(naive, "."); dot >= 0 {
		naive = naive[:dot]
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return raw
	}

	for _, layout := range naiveLayouts {
		parsed, err := time.Parse(layout, naive)
		if err != nil {
			continue
		}
		local := time.Date(
			parsed.Year(), parsed.Month(), parsed.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0,
			loc,
		)
		return local.UTC().Format(canonicalUTC)
	}
	return raw
}

// LocalDay reports the calendar day of the instant in the given zone,
// falling back to UTC when the zone is unknown.
func (c *Corrector) LocalDay(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2006-01-02")
}
