// Package cronspec parses the seven-field cron grammar the Flow
// frequency column is stored in: the six fields robfig/cron
// already understands (seconds, minutes, hours, day-of-month, month,
// day-of-week) plus a trailing year field robfig has no concept of.
package cronspec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var sixFieldParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Schedule is a parsed seven-field expression. It satisfies cron.Schedule
// so it can be handed anywhere the robfig API expects one, with the year
// field layered on as an additional filter on top of Next.
type Schedule struct {
	inner cron.Schedule
	years yearMatcher
	raw   string
}

// Parse parses a space-separated "sec min hour dom month dow year"
// expression. The year field accepts "*" or a comma-separated list of
// four-digit years; all other fields use robfig's standard grammar.
func Parse(expr string) (*Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 7 {
		return nil, fmt.Errorf("cronspec: expected 7 fields, got %d in %q", len(fields), expr)
	}

	sixField := strings.Join(fields[:6], " ")
	inner, err := sixFieldParser.Parse(sixField)
	if err != nil {
		return nil, fmt.Errorf("cronspec: %w", err)
	}

	years, err := parseYears(fields[6])
	if err != nil {
		return nil, fmt.Errorf("cronspec: %w", err)
	}

	return &Schedule{inner: inner, years: years, raw: expr}, nil
}

// String returns the original seven-field text, e.g. for logging.
func (s *Schedule) String() string {
	return s.raw
}

// Next returns the next activation strictly after t whose year also matches
// the year field. maxLookahead bounds the search so a year field that can
// never match (e.g. a year already passed) does not spin forever.
func (s *Schedule) Next(t time.Time) time.Time {
	const maxLookahead = 50
	next := t
	for i := 0; i < maxLookahead; i++ {
		next = s.inner.Next(next)
		if next.IsZero() {
			return next
		}
		if s.years.match(next.Year()) {
			return next
		}
	}
	return time.Time{}
}

// UpcomingOn returns every activation whose calendar date (in loc) equals
// date, starting the search from now. This is the Flow Controller's
// "today's upcoming triggers" window: iteration stops as soon as an
// activation lands past the requested date.
func (s *Schedule) UpcomingOn(now time.Time, date time.Time, loc *time.Location) []time.Time {
	y1, m1, d1 := date.In(loc).Date()
	var out []time.Time
	cursor := now
	for {
		next := s.Next(cursor)
		if next.IsZero() {
			break
		}
		y2, m2, d2 := next.In(loc).Date()
		if y2 > y1 || (y2 == y1 && m2 > m1) || (y2 == y1 && m2 == m1 && d2 > d1) {
			break
		}
		if y2 == y1 && m2 == m1 && d2 == d1 {
			out = append(out, next)
		}
		cursor = next
	}
	return out
}

type yearMatcher struct {
	any   bool
	years map[int]struct{}
}

func (m yearMatcher) match(year int) bool {
	if m.any {
		return true
	}
	_, ok := m.years[year]
	return ok
}

func parseYears(field string) (yearMatcher, error) {
	if field == "*" {
		return yearMatcher{any: true}, nil
	}
	years := make(map[int]struct{})
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)
		y, err := strconv.Atoi(part)
		if err != nil {
			return yearMatcher{}, fmt.Errorf("invalid year field %q: %w", field, err)
		}
		years[y] = struct{}{}
	}
	return yearMatcher{years: years}, nil
}

// Build7 constructs the "{s} {m} {h} {dom} {month} * {year}" one-shot
// expression the scheduled dispatch path uses to describe a single future
// instant.
func Build7(t time.Time) string {
	return fmt.Sprintf("%d %d %d %d %d * %d",
		t.Second(), t.Minute(), t.Hour(), t.Day(), int(t.Month()), t.Year())
}
