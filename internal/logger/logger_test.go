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

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		handlers    []slog.Handler
		logLevelEnv string
		want        slog.Level
	}{
		{
			name:        "no handler with default level",
			logLevelEnv: "",
			want:        slog.LevelInfo,
		},
		{
			name:        "no handler with debug level",
			logLevelEnv: "DEBUG",
			want:        slog.LevelDebug,
		},
		{
			name:        "no handler with lower case level",
			logLevelEnv: "error",
			want:        slog.LevelError,
		},
		{
			name:     "custom handler",
			handlers: []slog.Handler{slog.NewJSONHandler(os.Stdout, nil)},
			want:     slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevelEnv)

			log := NewLogger(tt.handlers...)
			require.NotNil(t, log)

			assert.True(t, log.Enabled(context.Background(), tt.want))
			if tt.want > slog.LevelDebug {
				assert.False(t, log.Enabled(context.Background(), tt.want-1))
			}
			if len(tt.handlers) > 0 {
				assert.Same(t, tt.handlers[0], log.Handler())
			}
		})
	}
}

func TestNewContextWithLogger(t *testing.T) {
	custom := NewLogger(slog.NewJSONHandler(os.Stdout, nil))
	tests := []struct {
		name      string
		parentCtx context.Context
		want      *slog.Logger
	}{
		{
			name:      "background context",
			parentCtx: context.Background(),
		},
		{
			name:      "parent carries a logger",
			parentCtx: IntoContext(context.Background(), custom),
			want:      custom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := NewContextWithLogger(tt.parentCtx)
			defer cancel()

			log, ok := ctx.Value(logger{}).(*slog.Logger)
			require.True(t, ok, "context does not contain *slog.Logger")
			if tt.want != nil {
				assert.Same(t, tt.want, log)
			}

			cancel()
			assert.Error(t, ctx.Err())
			assert.NoError(t, tt.parentCtx.Err())
		})
	}
}

func TestFromContext(t *testing.T) {
	custom := NewLogger(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("context with logger", func(t *testing.T) {
		assert.Same(t, custom, FromContext(IntoContext(context.Background(), custom)))
	})
	t.Run("context without logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})
	t.Run("nil context", func(t *testing.T) {
		assert.NotNil(t, FromContext(nil)) //nolint:staticcheck // nil context is handled
	})
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	parent := IntoContext(context.Background(), NewLogger(slog.NewJSONHandler(&buf, nil)))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("handled")
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/day", http.NoBody)
	rec := httptest.NewRecorder()
	Middleware(parent)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "handled", entry["msg"])
	assert.Equal(t, http.MethodGet, entry["method"])
	assert.Equal(t, "/v1/day", entry["path"])
}

func TestGetLevel(t *testing.T) {
	tests := []struct {
		input  string
		expect slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"UNKNOWN", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expect, getLevel(tt.input))
		})
	}
}
