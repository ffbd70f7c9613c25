package client

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
)

// DataSource carries one operation to a GraphQL server and returns its response.
// Failures are reported in Response.Errors.
type DataSource interface {
	Process(ctx context.Context, oc *graphql.OperationContext) *graphql.Response
}

type tokenKey struct{}

// WithToken attaches the session token sent as the x-jwt header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// TokenHeader is the request header that carries the session token.
const TokenHeader = "x-jwt"
