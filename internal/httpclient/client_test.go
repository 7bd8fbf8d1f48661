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

package httpclient

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	c := New(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Timeout)
}

func TestFromContext(t *testing.T) {
	mockClient := New(time.Second)

	tests := []struct {
		name      string
		ctxClient *http.Client
		want      *http.Client
	}{
		{
			name:      "no client in context",
			ctxClient: nil,
			want:      http.DefaultClient,
		},
		{
			name:      "client in context",
			ctxClient: mockClient,
			want:      mockClient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.ctxClient != nil {
				ctx = IntoContext(ctx, tt.ctxClient)
			}
			assert.Same(t, tt.want, FromContext(ctx))
		})
	}
}

func TestFromContext_nilClientStored(t *testing.T) {
	ctx := IntoContext(context.Background(), nil)
	assert.Same(t, http.DefaultClient, FromContext(ctx))
}

func TestCopy(t *testing.T) {
	shared := &http.Client{Timeout: time.Second, Transport: http.DefaultTransport}
	ctx := IntoContext(context.Background(), shared)

	c := Copy(ctx)
	assert.NotSame(t, shared, c)
	assert.Same(t, shared.Transport, c.Transport)

	c.Timeout = time.Minute
	assert.Equal(t, time.Second, shared.Timeout)
}
