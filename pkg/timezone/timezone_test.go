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

package timezone

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-12-21T10:00:00+05:30
const referenceInstant int64 = 1734755400

func newTestCalculator(t *testing.T, now time.Time) *Calculator {
	t.Helper()
	c, err := Load(DefaultZone, WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	return c
}

// withHostZone swaps the process local timezone for the duration of the test
func withHostZone(t *testing.T, loc *time.Location) {
	t.Helper()
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestLoad(t *testing.T) {
	c, err := Load(DefaultZone)
	require.NoError(t, err)
	assert.Equal(t, DefaultZone, c.Location().String())

	_, err = Load("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestNew_nilLocation(t *testing.T) {
	assert.Equal(t, time.UTC, New(nil).Location())
}

func TestCalculator_CurrentTimestamp(t *testing.T) {
	now := time.Unix(referenceInstant, int64(500*time.Millisecond))
	c := newTestCalculator(t, now)

	assert.Equal(t, referenceInstant, c.CurrentTimestamp())
}

func TestCalculator_CurrentTimestamp_nonDecreasing(t *testing.T) {
	c, err := Load(DefaultZone)
	require.NoError(t, err)

	first := c.CurrentTimestamp()
	second := c.CurrentTimestamp()
	assert.LessOrEqual(t, first, second)
}

func TestCalculator_DayRangeAt(t *testing.T) {
	tests := []struct {
		name      string
		ref       int64
		wantStart int64
		wantEnd   int64
	}{
		{
			name:      "mid morning",
			ref:       referenceInstant,
			wantStart: 1734719400,
			wantEnd:   1734805799,
		},
		{
			name:      "first second of the day",
			ref:       1734719400,
			wantStart: 1734719400,
			wantEnd:   1734805799,
		},
		{
			name:      "last second of the day",
			ref:       1734805799,
			wantStart: 1734719400,
			wantEnd:   1734805799,
		},
		{
			name:      "late evening of the previous day",
			ref:       1734715800,
			wantStart: 1734719400 - 86400,
			wantEnd:   1734805799 - 86400,
		},
	}

	for _, host := range []*time.Location{time.UTC, time.FixedZone("PST", -8*3600), time.FixedZone("NZDT", 13*3600)} {
		for _, tt := range tests {
			t.Run(host.String()+"/"+tt.name, func(t *testing.T) {
				withHostZone(t, host)
				c := newTestCalculator(t, time.Unix(tt.ref, 0))

				got := c.DayRangeAt(tt.ref)
				assert.Equal(t, DayRange{StartOfDay: tt.wantStart, EndOfDay: tt.wantEnd}, got)
				assert.Equal(t, int64(86399), got.EndOfDay-got.StartOfDay)
				assert.True(t, got.Contains(tt.ref))
				assert.Equal(t, got, c.Today())
			})
		}
	}
}

func TestCalculator_DayRangeAt_zeroIsNow(t *testing.T) {
	c := newTestCalculator(t, time.Unix(referenceInstant, 0))

	assert.Equal(t, c.Today(), c.DayRangeAt(0))
	assert.Equal(t, DayRange{StartOfDay: -19800, EndOfDay: 66599}, c.DayRangeAt(1))
	assert.Equal(t, DayRange{StartOfDay: -19800, EndOfDay: 66599}, c.DayRangeAt(-1))
}

func TestCalculator_DayRangeAt_daylightSaving(t *testing.T) {
	c, err := Load("Europe/Berlin")
	require.NoError(t, err)

	// 2024-03-31 has 23 hours in Berlin
	got := c.DayRangeAt(1711879200)
	assert.Equal(t, DayRange{StartOfDay: 1711839600, EndOfDay: 1711922399}, got)
	assert.Equal(t, int64(82799), got.EndOfDay-got.StartOfDay)
}

func TestCalculator_SecondsRemainingToday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int64
	}{
		{
			name: "ten in the morning",
			now:  time.Unix(referenceInstant, 0),
			want: 1734805799 - referenceInstant,
		},
		{
			name: "last second",
			now:  time.Unix(1734805799, int64(999*time.Millisecond)),
			want: 0,
		},
		{
			name: "midnight",
			now:  time.Unix(1734719400, 0),
			want: 86399,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCalculator(t, tt.now)
			assert.Equal(t, tt.want, c.SecondsRemainingToday())
		})
	}
}

func TestCalculator_UnixToCivilDate(t *testing.T) {
	c := newTestCalculator(t, time.Now())

	got := c.UnixToCivilDate(referenceInstant)
	assert.Equal(t, DefaultZone, got.Location().String())
	assert.Equal(t, 2024, got.Year())
	assert.Equal(t, time.December, got.Month())
	assert.Equal(t, 21, got.Day())
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestCalculator_CivilDateToUnix(t *testing.T) {
	picked := time.Date(2024, 12, 21, 10, 0, 0, 0, time.FixedZone("PST", -8*3600))
	var nilTime *time.Time

	tests := []struct {
		name    string
		input   any
		want    int64
		wantErr bool
	}{
		{name: "picker value in another zone", input: picked, want: referenceInstant},
		{name: "pointer to time", input: &picked, want: referenceInstant},
		{name: "date only string", input: "2024-12-21", want: 1734719400},
		{name: "date time string", input: "2024-12-21T10:00:00", want: referenceInstant},
		{name: "date time string with space", input: "2024-12-21 10:00:00", want: referenceInstant},
		{name: "rfc3339 offset is dropped", input: "2024-12-21T10:00:00Z", want: referenceInstant},
		{name: "sub second precision is dropped", input: picked.Add(750 * time.Millisecond), want: referenceInstant},
		{name: "not a date", input: "not a date", wantErr: true},
		{name: "zero time", input: time.Time{}, wantErr: true},
		{name: "nil pointer", input: nilTime, wantErr: true},
		{name: "number", input: 1734755400, wantErr: true},
		{name: "nil", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCalculator(t, time.Now())

			got, err := c.CivilDateToUnix(tt.input)
			if tt.wantErr {
				var invalid ErrInvalidInput
				require.True(t, errors.As(err, &invalid), "expected ErrInvalidInput, got %v", err)
				assert.Equal(t, "CivilDateToUnix", invalid.Op)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_CivilDateRoundTrip(t *testing.T) {
	c := newTestCalculator(t, time.Now())
	for _, ts := range []int64{0, -86400, 1, referenceInstant, 1734805799, 4102444799, 951782400} {
		got, err := c.CivilDateToUnix(c.UnixToCivilDate(ts))
		require.NoError(t, err)
		assert.Equal(t, ts, got, "round trip of %d", ts)
	}
}

func TestCalculator_FormatForDisplay(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		want    string
		wantErr bool
	}{
		{name: "morning", input: float64(referenceInstant), want: "December 21, 2024 at 10:00:00 AM IST"},
		{name: "afternoon with fraction", input: float64(1734805799) + 0.9, want: "December 21, 2024 at 11:59:59 PM IST"},
		{name: "epoch", input: 0, want: "January 1, 1970 at 05:30:00 AM IST"},
		{name: "nan", input: math.NaN(), wantErr: true},
		{name: "positive infinity", input: math.Inf(1), wantErr: true},
		{name: "negative infinity", input: math.Inf(-1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHostZone(t, time.UTC)
			c := newTestCalculator(t, time.Now())

			got, err := c.FormatForDisplay(tt.input)
			if tt.wantErr {
				var invalid ErrInvalidInput
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_Format(t *testing.T) {
	c := newTestCalculator(t, time.Now())
	assert.Equal(t, "December 21, 2024 at 10:00:00 AM IST", c.Format(referenceInstant))
}
