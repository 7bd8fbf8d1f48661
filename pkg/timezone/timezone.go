// uptimectl
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package timezone converts between UNIX timestamps and wall-clock dates
// of one fixed civil timezone, independent of the host's local timezone.
package timezone

import (
	"fmt"
	"math"
	"strings"
	"time"
	_ "time/tzdata" // zone database for hosts without one
)

// DefaultZone is the civil timezone health records are bucketed in
const DefaultZone = "Asia/Kolkata"

// DisplayLayout renders a timestamp as e.g. "December 21, 2024 at 10:00:00 AM IST"
const DisplayLayout = "January 2, 2006 at 03:04:05 PM MST"

var parseLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// DayRange marks the first and last second of one civil day
type DayRange struct {
	StartOfDay int64 `json:"startOfDay" yaml:"startOfDay"`
	EndOfDay   int64 `json:"endOfDay" yaml:"endOfDay"`
}

// Contains reports whether the UNIX timestamp lies within the day
func (d DayRange) Contains(unix int64) bool {
	return unix >= d.StartOfDay && unix <= d.EndOfDay
}

// Calculator performs all conversions in the timezone it was created with.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Calculator
type Option func(*Calculator)

// WithClock replaces the clock used to determine the current instant
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// New creates a Calculator bound to loc. A nil loc means UTC.
func New(loc *time.Location, opts ...Option) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calculator{loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load creates a Calculator for the IANA zone name
func Load(name string, opts ...Option) (*Calculator, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return New(loc, opts...), nil
}

// Location returns the civil timezone of the calculator
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// CurrentTimestamp returns now as UNIX seconds. The current instant is
// split into its civil fields in the calculator's zone and rebuilt from
// them, so the result does not depend on the host's timezone.
func (c *Calculator) CurrentTimestamp() int64 {
	n := c.now().In(c.loc)
	civil := time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second(), 0, c.loc)
	return civil.Unix()
}

// Today returns the range of the current civil day
func (c *Calculator) Today() DayRange {
	return c.dayRange(c.now())
}

// DayRangeAt returns the range of the civil day containing the UNIX timestamp.
// A zero timestamp stands for now.
func (c *Calculator) DayRangeAt(unix int64) DayRange {
	if unix == 0 {
		return c.Today()
	}
	return c.dayRange(time.Unix(unix, 0))
}

func (c *Calculator) dayRange(ref time.Time) DayRange {
	y, m, d := ref.In(c.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.loc)
	end := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), c.loc)
	return DayRange{
		StartOfDay: start.Unix(),
		EndOfDay:   end.Unix(),
	}
}

// SecondsRemainingToday returns the seconds left until the end of the
// current civil day. It never returns a negative value.
func (c *Calculator) SecondsRemainingToday() int64 {
	return max(c.Today().EndOfDay-c.CurrentTimestamp(), 0)
}

// UnixToCivilDate returns the instant expressed in the calculator's zone
func (c *Calculator) UnixToCivilDate(unix int64) time.Time {
	return time.Unix(unix, 0).In(c.loc)
}

// CivilDateToUnix reinterprets the wall clock of a date value as a
// wall clock in the calculator's zone and returns its UNIX timestamp.
//
// Accepted values are time.Time, *time.Time and strings in one of the
// forms 2006-01-02, 2006-01-02T15:04:05, 2006-01-02 15:04:05 or RFC 3339.
// Anything else, including zero times, yields ErrInvalidInput.
func (c *Calculator) CivilDateToUnix(v any) (int64, error) {
	const op = "CivilDateToUnix"
	var t time.Time
	switch d := v.(type) {
	case time.Time:
		t = d
	case *time.Time:
		if d == nil {
			return 0, ErrInvalidInput{Op: op, Value: v}
		}
		t = *d
	case string:
		parsed, ok := parseWallClock(d)
		if !ok {
			return 0, ErrInvalidInput{Op: op, Value: v}
		}
		t = parsed
	default:
		return 0, ErrInvalidInput{Op: op, Value: v}
	}
	if t.IsZero() {
		return 0, ErrInvalidInput{Op: op, Value: v}
	}

	civil := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, c.loc)
	return civil.Unix(), nil
}

// FormatForDisplay renders the UNIX timestamp in the long display form.
// Fractional seconds are dropped. NaN and infinite values yield ErrInvalidInput.
func (c *Calculator) FormatForDisplay(unix float64) (string, error) {
	if math.IsNaN(unix) || math.IsInf(unix, 0) || unix >= math.MaxInt64 || unix < math.MinInt64 {
		return "", ErrInvalidInput{Op: "FormatForDisplay", Value: unix}
	}
	return time.Unix(int64(math.Floor(unix)), 0).In(c.loc).Format(DisplayLayout), nil
}

// Format is FormatForDisplay for integral timestamps, which cannot fail
func (c *Calculator) Format(unix int64) string {
	return time.Unix(unix, 0).In(c.loc).Format(DisplayLayout)
}

// parseWallClock parses s keeping only its wall clock; the returned
// time's location is meaningless.
func parseWallClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
