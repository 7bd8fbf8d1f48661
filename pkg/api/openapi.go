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

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"

	"github.com/caas-team/uptimectl/internal/logger"
)

// Doc documents a route
type Doc struct {
	Summary    string
	Tags       []string
	Parameters openapi3.Parameters
	// Response is a sample of the response body the schema is derived from
	Response any
}

func newDocument(version string) openapi3.T {
	return openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "uptimectl console API",
			Description: "Serves aggregated uptime data of monitored URLs",
			Version:     version,
			Contact: &openapi3.Contact{
				URL:   "https://caas.telekom.de",
				Email: "caas-request@telekom.de",
				Name:  "CaaS Team",
			},
		},
		Paths:      make(openapi3.Paths),
		Extensions: make(map[string]any),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
		Servers: openapi3.Servers{},
	}
}

// GenerateSpec generates the OpenAPI document of the documented routes
func GenerateSpec(ctx context.Context, version string, routes ...Route) (openapi3.T, error) {
	log := logger.FromContext(ctx)
	doc := newDocument(version)
	for _, r := range routes {
		if r.Doc == nil || r.Method == "Handle" || r.Method == "HandleFunc" {
			continue
		}
		ref, err := openapi3gen.NewSchemaRefForValue(r.Doc.Response, openapi3.Schemas{}, openapi3gen.UseAllExportedFields())
		if err != nil {
			log.Error("Failed to get schema for route", "path", r.Path, "error", err)
			return openapi3.T{}, &ErrCreateOpenapiSchema{name: r.Path, err: err}
		}

		bodyDesc := fmt.Sprintf("Response of %s", r.Path)
		responses := openapi3.Responses{
			fmt.Sprint(http.StatusOK): &openapi3.ResponseRef{
				Value: &openapi3.Response{
					Description: &bodyDesc,
					Content:     openapi3.NewContentWithSchemaRef(ref, []string{"application/json"}),
				},
			},
		}

		item, ok := doc.Paths[r.Path]
		if !ok {
			item = &openapi3.PathItem{}
			doc.Paths[r.Path] = item
		}
		item.SetOperation(r.Method, &openapi3.Operation{
			Summary:    r.Doc.Summary,
			Tags:       r.Doc.Tags,
			Parameters: r.Doc.Parameters,
			Responses:  responses,
		})
	}

	return doc, nil
}
