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

// Package probe fires ad-hoc requests against monitored URLs.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/caas-team/uptimectl/internal/helper"
	"github.com/caas-team/uptimectl/internal/httpclient"
	"github.com/caas-team/uptimectl/internal/logger"
	"github.com/caas-team/uptimectl/pkg/backend"
)

const (
	// DefaultTimeout applies to requests without a timeout
	DefaultTimeout = 10 * time.Second
	// DefaultMonitorTimeout applies to monitors without a timeout
	DefaultMonitorTimeout = 5 * time.Second
)

// Request describes an ad-hoc request
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	// Body is encoded as JSON unless it is a string or []byte
	Body    any
	Timeout time.Duration
}

// Result is the outcome of a request. Failed requests are reported in the
// result instead of as an error.
type Result struct {
	Success bool        `json:"success" yaml:"success"`
	Status  int         `json:"status,omitempty" yaml:"status,omitempty"`
	Headers http.Header `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Data is the decoded JSON body or the raw body if it is not JSON
	Data    any           `json:"data,omitempty" yaml:"data,omitempty"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Do sends the request with the http.Client of the context
func Do(ctx context.Context, req Request) Result {
	log := logger.FromContext(ctx).With("url", req.URL)

	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.Method = strings.ToUpper(req.Method)
	if req.Timeout <= 0 {
		req.Timeout = DefaultTimeout
	}
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	r := resty.NewWithClient(httpclient.Copy(ctx)).R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		log.Warn("Probe request failed", "method", req.Method, "error", err)
		res := Result{Success: false, Message: err.Error(), Elapsed: time.Since(start)}
		if resp != nil && resp.RawResponse != nil {
			res.Status = resp.StatusCode()
			res.Data = decodeBody(resp.Body())
		}
		return res
	}

	res := Result{
		Status:  resp.StatusCode(),
		Data:    decodeBody(resp.Body()),
		Elapsed: resp.Time(),
	}
	if !resp.IsSuccess() {
		res.Message = fmt.Sprintf("request failed with status code %d", resp.StatusCode())
		log.Warn("Probe request failed", "method", req.Method, "status", res.Status)
		return res
	}
	res.Success = true
	res.Headers = resp.Header()
	log.Debug("Probe request succeeded", "method", req.Method, "status", res.Status)
	return res
}

// ForMonitor builds the request a monitor describes
func ForMonitor(ctx context.Context, m backend.Monitor) Request {
	timeout := time.Duration(m.Timeout) * time.Second
	if timeout <= 0 {
		timeout = DefaultMonitorTimeout
	}

	req := Request{
		URL:     m.URL,
		Method:  m.Method,
		Headers: decodeHeaders(ctx, ParseJSON(m.Headers)),
		Timeout: timeout,
	}
	if body := ParseJSON(m.Body); body != nil {
		req.Body = body
	} else {
		// arrays are sent as they are
		req.Body = json.RawMessage(m.Body)
	}
	return req
}

// decodeHeaders converts header values into strings. Values that are no
// scalars are dropped.
func decodeHeaders(ctx context.Context, raw map[string]any) map[string]string {
	headers, failed := helper.DecodeValues[string](raw)
	for k, err := range failed {
		logger.FromContext(ctx).Warn("Dropping header with unsupported value", "header", k, "error", err)
	}
	return headers
}

func decodeBody(b []byte) any {
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	return v
}
