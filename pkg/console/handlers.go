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

package console

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/api"
	"github.com/caas-team/uptimectl/pkg/backend"
	"github.com/caas-team/uptimectl/pkg/health"
	"github.com/caas-team/uptimectl/pkg/query"
)

type encoder interface {
	Encode(v any) error
}

// HealthInfo is the aggregated health of a monitor
type HealthInfo struct {
	ID     string        `json:"id"`
	Date   int64         `json:"date"`
	Live   bool          `json:"live"`
	Health health.Bucket `json:"health"`
	Tally  health.Tally  `json:"tally"`
}

// DayInfo is the civil day around an instant
type DayInfo struct {
	StartOfDay int64 `json:"startOfDay"`
	EndOfDay   int64 `json:"endOfDay"`
	// SecondsRemaining is the number of seconds left of the current day
	SecondsRemaining int64 `json:"secondsRemaining"`
}

// TimeInfo is a timestamp with its display form
type TimeInfo struct {
	Timestamp int64  `json:"timestamp"`
	Display   string `json:"display"`
}

func (c *Console) handleURLHealth(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := chi.URLParam(r, urlParamID)

	date := c.calc.Today().StartOfDay
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Debug("Invalid date parameter", "date", v, "error", err)
			writeStatus(w, r, http.StatusBadRequest)
			return
		}
		date = d
	}
	live := false
	if v := r.URL.Query().Get("live"); v != "" {
		l, err := strconv.ParseBool(v)
		if err != nil {
			log.Debug("Invalid live parameter", "live", v, "error", err)
			writeStatus(w, r, http.StatusBadRequest)
			return
		}
		live = l
	}

	b, err := c.query.URLHealth(r.Context(), id, date, live)
	if err != nil {
		log.Error("Failed to get url health", "id", id, "error", err)
		writeStatus(w, r, statusFor(err))
		return
	}

	writeJSON(w, r, HealthInfo{ID: id, Date: date, Live: live, Health: b, Tally: b.Tally()})
}

func (c *Console) handleDay(w http.ResponseWriter, r *http.Request) {
	day := c.calc.Today()
	if v := r.URL.Query().Get("at"); v != "" {
		at, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeStatus(w, r, http.StatusBadRequest)
			return
		}
		day = c.calc.DayRangeAt(at)
	}

	writeJSON(w, r, DayInfo{
		StartOfDay:       day.StartOfDay,
		EndOfDay:         day.EndOfDay,
		SecondsRemaining: c.calc.SecondsRemainingToday(),
	})
}

func (c *Console) handleTime(w http.ResponseWriter, r *http.Request) {
	ts := float64(c.calc.CurrentTimestamp())
	if v := r.URL.Query().Get("ts"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeStatus(w, r, http.StatusBadRequest)
			return
		}
		ts = f
	}

	display, err := c.calc.FormatForDisplay(ts)
	if err != nil {
		logger.FromContext(r.Context()).Debug("Invalid timestamp", "error", err)
		writeStatus(w, r, http.StatusBadRequest)
		return
	}
	writeJSON(w, r, TimeInfo{Timestamp: int64(math.Floor(ts)), Display: display})
}

func (c *Console) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	oapi, err := api.GenerateSpec(r.Context(), c.version, c.routes()...)
	if err != nil {
		log.Error("Failed to create openapi", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
		return
	}

	mime := r.Header.Get("Accept")

	var marshaler encoder
	switch mime {
	case "application/json":
		marshaler = json.NewEncoder(w)
		w.Header().Add("Content-Type", "application/json")
	default:
		marshaler = yaml.NewEncoder(w)
		w.Header().Add("Content-Type", "text/yaml")
	}

	if err = marshaler.Encode(oapi); err != nil {
		log.Error("Failed to marshal openapi", "error", err)
		writeStatus(w, r, http.StatusInternalServerError)
	}
}

// statusFor maps a query error to a response status
func statusFor(err error) int {
	var reqErr backend.ErrRequest
	switch {
	case errors.Is(err, query.ErrDisabled):
		return http.StatusBadRequest
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Add("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("Failed to encode response", "error", err)
	}
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int) {
	w.WriteHeader(status)
	if _, err := w.Write([]byte(http.StatusText(status))); err != nil {
		logger.FromContext(r.Context()).Error("Failed to write response", "error", err)
	}
}
