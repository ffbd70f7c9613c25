package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/typeddoc/internal/log"
)

var _ DataSource = (*RemoteDataSource)(nil)

// RemoteDataSource posts operations as JSON to URL.
type RemoteDataSource struct {
	URL string

	Client *http.Client
	Header http.Header
}

func (ds *RemoteDataSource) Process(ctx context.Context, oc *graphql.OperationContext) *graphql.Response {
	logger := log.FromContext(ctx)

	hc := ds.Client
	if hc == nil {
		hc = http.DefaultClient
	}

	type RawParams struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName,omitempty"`
		Variables     map[string]interface{} `json:"variables,omitempty"`
	}

	params := &RawParams{
		Query:         oc.RawQuery,
		OperationName: oc.OperationName,
		Variables:     oc.Variables,
	}
	b, err := json.Marshal(params)
	if err != nil {
		return errorResponse(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ds.URL, bytes.NewBuffer(b))
	if err != nil {
		return errorResponse(err)
	}
	for key, values := range ds.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set(TokenHeader, token)
	}

	logger.V(1).Info("sending operation", "url", ds.URL, "operationName", oc.OperationName)

	resp, err := hc.Do(req)
	if err != nil {
		return errorResponse(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	b, err = io.ReadAll(resp.Body)
	if err != nil {
		return errorResponse(err)
	}

	gqlResp := &graphql.Response{}
	err = json.Unmarshal(b, gqlResp)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			return &graphql.Response{
				Errors: gqlerror.List{gqlerror.Errorf("unexpected response code: %d", resp.StatusCode)},
			}
		}
		return errorResponse(err)
	}
	if resp.StatusCode != http.StatusOK && len(gqlResp.Errors) == 0 {
		gqlResp.Errors = gqlerror.List{gqlerror.Errorf("unexpected response code: %d", resp.StatusCode)}
	}

	logger.V(1).Info("received response", "status", resp.StatusCode, "errors", len(gqlResp.Errors))

	return gqlResp
}

func errorResponse(err error) *graphql.Response {
	return &graphql.Response{
		Errors: gqlerror.List{gqlerror.Wrap(err)},
	}
}
