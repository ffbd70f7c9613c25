package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vvakame/typeddoc/document"
	"github.com/vvakame/typeddoc/internal/log"
)

// ErrEmptyDocument is returned when an empty descriptor is executed, which
// happens when a source text was not found in the registry.
var ErrEmptyDocument = errors.New("client: document is empty, regenerate the registry")

// Client executes typed documents through a DataSource.
type Client struct {
	DataSource DataSource
}

func New(ds DataSource) *Client {
	return &Client{DataSource: ds}
}

// NewRemote is a shortcut for a Client posting to endpointURL.
func NewRemote(endpointURL string) *Client {
	return New(&RemoteDataSource{URL: endpointURL})
}

// Do executes doc with vars and decodes the data of the response into TResult.
// GraphQL errors are returned as gqlerror.List; when the response also carries
// data, the decoded result is returned alongside the error.
func Do[TResult, TVariables any](ctx context.Context, c *Client, doc *document.Document[TResult, TVariables], vars TVariables) (*TResult, error) {
	if doc.IsEmpty() {
		return nil, ErrEmptyDocument
	}
	if doc.Kind() == document.KindFragment {
		return nil, fmt.Errorf("client: fragment %s cannot be executed", doc.Name())
	}

	queryDoc, err := doc.QueryDocument()
	if err != nil {
		return nil, err
	}

	variables, err := variablesMap(vars)
	if err != nil {
		return nil, fmt.Errorf("client: encode variables of %s: %w", doc.Name(), err)
	}

	oc := &graphql.OperationContext{
		RawQuery:      doc.Source(),
		Variables:     variables,
		OperationName: doc.Name(),
		Doc:           queryDoc,
		Operation:     queryDoc.Operations.ForName(doc.Name()),
	}

	logger := log.FromContext(ctx).WithValues("operation", doc.Name(), "kind", doc.Kind().String())
	logger.V(1).Info("execute")

	resp := c.DataSource.Process(ctx, oc)
	if resp == nil {
		return nil, fmt.Errorf("client: %s: no response", doc.Name())
	}

	var result *TResult
	if len(resp.Data) != 0 && string(resp.Data) != "null" {
		result = new(TResult)
		if err := json.Unmarshal(resp.Data, result); err != nil {
			return nil, fmt.Errorf("client: decode result of %s: %w", doc.Name(), err)
		}
	}

	if len(resp.Errors) != 0 {
		logger.Info("operation returned errors", "errors", resp.Errors.Error())
		return result, resp.Errors
	}
	if result == nil {
		return nil, fmt.Errorf("client: %s: response has no data", doc.Name())
	}

	return result, nil
}

func variablesMap(vars interface{}) (map[string]interface{}, error) {
	switch vars := vars.(type) {
	case nil:
		return map[string]interface{}{}, nil
	case map[string]interface{}:
		return vars, nil
	case document.NoVariables:
		return map[string]interface{}{}, nil
	}

	b, err := json.Marshal(vars)
	if err != nil {
		return nil, err
	}
	// numbers stay json.Number, the same shape an HTTP handler decodes
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	m := make(map[string]interface{})
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}
