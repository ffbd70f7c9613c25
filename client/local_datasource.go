package client

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

var _ DataSource = (*LocalDataSource)(nil)

// LocalDataSource runs operations against an in-process schema.
type LocalDataSource struct {
	ExecutableSchema graphql.ExecutableSchema
}

func (ds *LocalDataSource) Process(ctx context.Context, oc *graphql.OperationContext) *graphql.Response {
	schema := ds.ExecutableSchema.Schema()

	// validation writes into the AST, so the shared cached document is not reused
	doc, pErr := parser.ParseQuery(&ast.Source{Input: oc.RawQuery})
	if pErr != nil {
		var gErr *gqlerror.Error
		if !errors.As(pErr, &gErr) {
			gErr = gqlerror.Wrap(pErr)
		}
		return &graphql.Response{Errors: gqlerror.List{gErr}}
	}
	gErrs := validator.Validate(schema, doc)
	if len(gErrs) != 0 {
		return &graphql.Response{Errors: gErrs}
	}

	operation := doc.Operations.ForName(oc.OperationName)
	if operation == nil {
		return &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf(`unknown operation named "%s"`, oc.OperationName)}}
	}
	variables, err := validator.VariableValues(schema, operation, oc.Variables)
	if err != nil {
		var gErr *gqlerror.Error
		if !errors.As(err, &gErr) {
			gErr = gqlerror.Wrap(err)
		}
		return &graphql.Response{Errors: gqlerror.List{gErr}}
	}

	copied := *oc
	copied.Doc = doc
	copied.Operation = operation
	copied.Variables = variables
	if copied.ResolverMiddleware == nil {
		copied.ResolverMiddleware = func(ctx context.Context, next graphql.Resolver) (res interface{}, err error) {
			return next(ctx)
		}
	}

	ctx = graphql.WithOperationContext(ctx, &copied)
	ctx = graphql.WithResponseContext(ctx, graphql.DefaultErrorPresenter, graphql.DefaultRecover)

	rh := ds.ExecutableSchema.Exec(ctx)
	resp := rh(ctx)
	if resp == nil {
		resp = &graphql.Response{}
	}
	if gErrs := graphql.GetErrors(ctx); len(gErrs) != 0 {
		resp.Errors = append(resp.Errors, gErrs...)
	}

	return resp
}
