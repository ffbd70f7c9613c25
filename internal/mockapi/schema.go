package mockapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vvakame/typeddoc/client"
	"github.com/vvakame/typeddoc/internal/execute"
	"github.com/vvakame/typeddoc/internal/log"
)

//go:embed schema.graphqls
var SchemaSource string

var schema = gqlparser.MustLoadSchema(&ast.Source{
	Name:  "schema.graphqls",
	Input: SchemaSource,
})

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

type executableSchema struct {
	store *Store
}

// New returns an executable schema serving the Nuber Eats API from store.
func New(store *Store) graphql.ExecutableSchema {
	return &executableSchema{store: store}
}

func (es *executableSchema) Schema() *ast.Schema {
	return schema
}

func (es *executableSchema) Complexity(typeName, fieldName string, childComplexity int, args map[string]interface{}) (int, bool) {
	return 0, false
}

func (es *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	oc := graphql.GetOperationContext(ctx)

	log.FromContext(ctx).V(1).Info("mockapi exec", "operationName", oc.OperationName)

	resp, gErr := execute.Execute(ctx, &execute.ExecutionArgs{
		Schema:         schema,
		Document:       oc.Doc,
		VariableValues: oc.Variables,
		OperationName:  oc.OperationName,
		FieldResolver:  es.resolveField,
	})
	if gErr != nil {
		resp = &graphql.Response{Errors: gqlerror.List{gErr}}
	}

	var once bool
	return func(ctx context.Context) *graphql.Response {
		if once {
			return nil
		}
		once = true
		return resp
	}
}

// TokenMiddleware moves the x-jwt header into the request context.
func TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get(client.TokenHeader); token != "" {
			r = r.WithContext(client.WithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func (es *executableSchema) resolveField(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)

	switch fc.Object {
	case "Query":
		switch fc.Field.Name {
		case "me":
			u, err := es.store.UserByToken(client.TokenFromContext(ctx))
			if err != nil {
				return nil, err
			}
			return userValue(u), nil
		case "allCategories":
			categories := es.store.Categories()
			values := make([]interface{}, 0, len(categories))
			for _, c := range categories {
				value := categoryValue(c.Category)
				value["restaurantCount"] = c.RestaurantCount
				values = append(values, value)
			}
			return map[string]interface{}{"ok": true, "categories": values}, nil
		case "restaurants":
			page, err := intArg(inputArg(args), "page", 1)
			if err != nil {
				return nil, err
			}
			results, categories, totalPages, totalResults := es.store.Restaurants(page)
			values := make([]interface{}, 0, len(results))
			for _, r := range results {
				values = append(values, restaurantValue(r, categories[r.CategoryID]))
			}
			return map[string]interface{}{
				"ok":           true,
				"totalPages":   totalPages,
				"totalResults": totalResults,
				"results":      values,
			}, nil
		}

	case "Mutation":
		input := inputArg(args)
		switch fc.Field.Name {
		case "createAccount":
			_, err := es.store.CreateAccount(stringArg(input, "email"), stringArg(input, "password"), stringArg(input, "role"))
			return output(err), nil
		case "login":
			token, err := es.store.Login(stringArg(input, "email"), stringArg(input, "password"))
			if err != nil {
				return output(err), nil
			}
			result := output(nil)
			result["token"] = token
			return result, nil
		case "verifyEmail":
			return output(es.store.VerifyEmail(stringArg(input, "code"))), nil
		case "editProfile":
			u, err := es.store.UserByToken(client.TokenFromContext(ctx))
			if err != nil {
				return nil, err
			}
			return output(es.store.EditProfile(u.ID, optionalStringArg(input, "email"), optionalStringArg(input, "password"))), nil
		}
	}

	return execute.DefaultFieldResolver(ctx, source, args)
}

func output(err error) map[string]interface{} {
	if err != nil {
		return map[string]interface{}{"ok": false, "error": err.Error()}
	}
	return map[string]interface{}{"ok": true}
}

func userValue(u *User) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"email":    u.Email,
		"role":     u.Role,
		"verified": u.Verified,
	}
}

func categoryValue(c *Category) map[string]interface{} {
	value := map[string]interface{}{
		"id":   c.ID,
		"name": c.Name,
		"slug": c.Slug,
	}
	if c.CoverImg != "" {
		value["coverImg"] = c.CoverImg
	}
	return value
}

func restaurantValue(r *Restaurant, c *Category) map[string]interface{} {
	value := map[string]interface{}{
		"id":         r.ID,
		"name":       r.Name,
		"coverImg":   r.CoverImg,
		"address":    r.Address,
		"isPromoted": r.IsPromoted,
	}
	if c != nil {
		value["category"] = categoryValue(c)
	}
	return value
}

func inputArg(args map[string]interface{}) map[string]interface{} {
	input, _ := args["input"].(map[string]interface{})
	return input
}

func stringArg(input map[string]interface{}, name string) string {
	s, _ := input[name].(string)
	return s
}

func optionalStringArg(input map[string]interface{}, name string) *string {
	s, ok := input[name].(string)
	if !ok {
		return nil
	}
	return &s
}

func intArg(input map[string]interface{}, name string, defaultValue int) (int, error) {
	switch v := input[name].(type) {
	case nil:
		return defaultValue, nil
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("%s: unexpected type %T", name, v)
	}
}
