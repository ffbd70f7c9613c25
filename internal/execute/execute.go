package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vvakame/typeddoc/internal/utils"
)

type ExecutionContext struct {
	Schema         *ast.Schema
	Fragments      ast.FragmentDefinitionList
	RootValue      interface{}
	Operation      *ast.OperationDefinition
	VariableValues map[string]interface{}
	FieldResolver  FieldResolver
	TypeResolver   TypeResolver
	Errors         gqlerror.List
}

type ExecutionArgs struct {
	Schema         *ast.Schema
	Document       *ast.QueryDocument
	RootValue      interface{}            // optional
	VariableValues map[string]interface{} // optional
	OperationName  string                 // optional
	FieldResolver  FieldResolver          // optional
	TypeResolver   TypeResolver           // optional
}

// FieldResolver produces the value of the field held by the FieldContext in ctx.
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// TypeResolver names the concrete object type of a value of an abstract type.
type TypeResolver func(ctx context.Context, value interface{}, schema *ast.Schema, abstractType *ast.Type) string

var _ FieldResolver = DefaultFieldResolver
var _ TypeResolver = DefaultTypeResolver

// errNullPropagated marks a null that was already reported by a child field.
var errNullPropagated = errors.New("null propagated from non-null child")

// Execute runs an already validated document against values produced by a
// FieldResolver. Objects are map[string]interface{}, lists are slices and
// leaves are Go scalars. ctx must carry a graphql.OperationContext.
//
// Fields are executed one at a time in document order, so mutations run
// serially.
func Execute(ctx context.Context, args *ExecutionArgs) (*graphql.Response, *gqlerror.Error) {
	if args.Document == nil {
		return nil, gqlerror.Errorf("must provide document")
	}
	if args.Schema == nil {
		return nil, gqlerror.Errorf("must provide schema")
	}
	if !graphql.HasOperationContext(ctx) {
		return nil, gqlerror.Errorf("context has no operation context")
	}

	exeContext, gErrs := buildExecutionContext(args)
	if len(gErrs) != 0 {
		return &graphql.Response{
			Errors: gErrs,
		}, nil
	}

	data, gErr := executeOperation(ctx, exeContext)
	if gErr != nil {
		return nil, gErr
	}

	var buf bytes.Buffer
	data.MarshalGQL(&buf)

	return &graphql.Response{
		Errors: exeContext.Errors,
		Data:   buf.Bytes(),
	}, nil
}

func buildExecutionContext(args *ExecutionArgs) (*ExecutionContext, gqlerror.List) {
	operation := args.Document.Operations.ForName(args.OperationName)
	if operation == nil {
		if args.OperationName != "" {
			return nil, gqlerror.List{gqlerror.Errorf(`unknown operation named "%s"`, args.OperationName)}
		}
		return nil, gqlerror.List{gqlerror.Errorf("must provide an operation")}
	}

	rawVariableValues := args.VariableValues
	if rawVariableValues == nil {
		rawVariableValues = make(map[string]interface{})
	}
	coercedVariableValues, err := validator.VariableValues(args.Schema, operation, rawVariableValues)
	if err != nil {
		return nil, gqlerror.List{asGQLError(err)}
	}

	fieldResolver := args.FieldResolver
	if fieldResolver == nil {
		fieldResolver = DefaultFieldResolver
	}
	typeResolver := args.TypeResolver
	if typeResolver == nil {
		typeResolver = DefaultTypeResolver
	}

	return &ExecutionContext{
		Schema:         args.Schema,
		Fragments:      args.Document.Fragments,
		RootValue:      args.RootValue,
		Operation:      operation,
		VariableValues: coercedVariableValues,
		FieldResolver:  fieldResolver,
		TypeResolver:   typeResolver,
	}, nil
}

func executeOperation(ctx context.Context, exeContext *ExecutionContext) (graphql.Marshaler, *gqlerror.Error) {
	operation := exeContext.Operation

	var typ *ast.Definition
	switch operation.Operation {
	case ast.Query:
		typ = exeContext.Schema.Query
	case ast.Mutation:
		typ = exeContext.Schema.Mutation
	case ast.Subscription:
		return nil, gqlerror.ErrorPosf(operation.Position, "subscriptions are not supported")
	}
	if typ == nil {
		return nil, gqlerror.ErrorPosf(operation.Position, "schema does not define a root type for %s", operation.Operation)
	}

	fields := graphql.CollectFields(graphql.GetOperationContext(ctx), operation.SelectionSet, []string{typ.Name})
	ctx = graphql.WithFieldContext(ctx, &graphql.FieldContext{
		Object: typ.Name,
	})

	result, ok := executeFields(ctx, exeContext, typ, exeContext.RootValue, fields)
	if !ok {
		return graphql.Null, nil
	}
	return result, nil
}

// executeFields returns false when a non-null field came back null, in
// which case the whole object is null.
func executeFields(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, sourceValue interface{}, fields []graphql.CollectedField) (graphql.Marshaler, bool) {
	out := &orderedObject{}
	for _, field := range fields {
		fc := &graphql.FieldContext{
			Object: parentType.Name,
			Field:  field,
			Args:   field.ArgumentMap(exeContext.VariableValues),
		}
		ctx := graphql.WithFieldContext(ctx, fc)

		data, ok := executeField(ctx, exeContext, parentType, sourceValue, field)
		if !ok {
			return graphql.Null, false
		}
		out.add(field.Alias, data)
	}

	return out, true
}

func executeField(ctx context.Context, exeContext *ExecutionContext, parentType *ast.Definition, source interface{}, field graphql.CollectedField) (graphql.Marshaler, bool) {
	fc := graphql.GetFieldContext(ctx)

	if field.Name == "__typename" {
		return graphql.MarshalString(parentType.Name), true
	}

	fieldDef := field.Definition
	if fieldDef == nil {
		fieldDef = parentType.Fields.ForName(field.Name)
	}
	if fieldDef == nil {
		exeContext.addError(gqlerror.ErrorPathf(fc.Path(), `cannot query field "%s" on type "%s"`, field.Name, parentType.Name))
		return graphql.Null, true
	}

	result, err := exeContext.FieldResolver(ctx, source, fc.Args)
	if err == nil {
		var completed graphql.Marshaler
		completed, err = completeValue(ctx, exeContext, fieldDef.Type, field, result)
		if err == nil {
			return completed, true
		}
	}

	if !errors.Is(err, errNullPropagated) {
		exeContext.addError(wrapPath(fc.Path(), err))
	}
	return graphql.Null, !fieldDef.Type.NonNull
}

func completeValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	fc := graphql.GetFieldContext(ctx)

	if err, ok := result.(error); ok && err != nil {
		return graphql.Null, err
	}

	if returnType.NonNull {
		nullable := *returnType
		nullable.NonNull = false
		completed, err := completeValue(ctx, exeContext, &nullable, field, result)
		if err != nil {
			return graphql.Null, err
		}
		if completed == graphql.Null {
			return graphql.Null, gqlerror.ErrorPathf(fc.Path(), "cannot return null for non-nullable field %s.%s", fc.Object, field.Name)
		}
		return completed, nil
	}

	if isNil(result) {
		return graphql.Null, nil
	}

	if returnType.Elem != nil {
		return completeListValue(ctx, exeContext, returnType, field, result)
	}

	def := exeContext.Schema.Types[returnType.Name()]
	switch {
	case utils.IsLeafType(def):
		return completeLeafValue(result)
	case utils.IsAbstractType(def):
		return completeAbstractValue(ctx, exeContext, returnType, field, result)
	case utils.IsObjectType(def):
		return completeObjectValue(ctx, exeContext, def, field, result)
	}

	return graphql.Null, fmt.Errorf("cannot complete value of unexpected output type: %s", returnType.String())
}

func completeListValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	fc := graphql.GetFieldContext(ctx)

	resultRV := reflect.ValueOf(result)
	if resultRV.Kind() != reflect.Slice {
		return graphql.Null, fmt.Errorf(`expected slice, but did not find one for field "%s.%s"`, fc.Object, field.Name)
	}

	itemType := returnType.Elem
	ret := make(graphql.Array, resultRV.Len())
	for index := 0; index < resultRV.Len(); index++ {
		index := index
		item := resultRV.Index(index).Interface()
		ctx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
			Object: fc.Object,
			Field:  field,
			Index:  &index,
			Result: item,
		})

		completed, err := completeValue(ctx, exeContext, itemType, field, item)
		if err != nil {
			if !errors.Is(err, errNullPropagated) {
				exeContext.addError(wrapPath(graphql.GetFieldContext(ctx).Path(), err))
			}
			if itemType.NonNull {
				return graphql.Null, errNullPropagated
			}
			completed = graphql.Null
		}
		ret[index] = completed
	}

	return ret, nil
}

func completeLeafValue(result interface{}) (graphql.Marshaler, error) {
	switch result := result.(type) {
	case bool:
		return graphql.MarshalBoolean(result), nil
	case int:
		return graphql.MarshalInt(result), nil
	case int32:
		return graphql.MarshalInt32(result), nil
	case int64:
		return graphql.MarshalInt64(result), nil
	case float64:
		return graphql.MarshalFloat(result), nil
	case string:
		return graphql.MarshalString(result), nil
	case fmt.Stringer:
		return graphql.MarshalString(result.String()), nil
	default:
		return graphql.Null, fmt.Errorf("unsupported leaf type: %T", result)
	}
}

func completeAbstractValue(ctx context.Context, exeContext *ExecutionContext, returnType *ast.Type, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	runtimeTypeName := exeContext.TypeResolver(ctx, result, exeContext.Schema, returnType)
	if runtimeTypeName == "" {
		return graphql.Null, fmt.Errorf(`abstract type "%s" must resolve to an Object type at runtime for field "%s"`, returnType.Name(), field.Name)
	}

	runtimeType := exeContext.Schema.Types[runtimeTypeName]
	if !utils.IsObjectType(runtimeType) {
		return graphql.Null, fmt.Errorf(`abstract type "%s" was resolved to "%s" which is not an object type`, returnType.Name(), runtimeTypeName)
	}
	if !utils.IsTypeDefSubTypeOf(exeContext.Schema, runtimeType, exeContext.Schema.Types[returnType.Name()]) {
		return graphql.Null, fmt.Errorf(`runtime Object type "%s" is not a possible type for "%s"`, runtimeType.Name, returnType.Name())
	}

	return completeObjectValue(ctx, exeContext, runtimeType, field, result)
}

func completeObjectValue(ctx context.Context, exeContext *ExecutionContext, def *ast.Definition, field graphql.CollectedField, result interface{}) (graphql.Marshaler, error) {
	subFields := graphql.CollectFields(graphql.GetOperationContext(ctx), field.SelectionSet, []string{def.Name})

	completed, ok := executeFields(ctx, exeContext, def, result, subFields)
	if !ok {
		return graphql.Null, errNullPropagated
	}
	return completed, nil
}

// DefaultTypeResolver reads the "__typename" key of a map value.
func DefaultTypeResolver(ctx context.Context, value interface{}, schema *ast.Schema, abstractType *ast.Type) string {
	if value, ok := value.(map[string]interface{}); ok {
		if typename, ok := value["__typename"].(string); ok {
			return typename
		}
	}
	return ""
}

// DefaultFieldResolver reads the key named after the field from a map value.
func DefaultFieldResolver(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil {
		return nil, fmt.Errorf("ctx doesn't have FieldContext")
	}

	if source, ok := source.(map[string]interface{}); ok {
		return source[fc.Field.Name], nil
	}

	return nil, nil
}

func (exeContext *ExecutionContext) addError(gErr *gqlerror.Error) {
	exeContext.Errors = append(exeContext.Errors, gErr)
}

func asGQLError(err error) *gqlerror.Error {
	var gErr *gqlerror.Error
	if errors.As(err, &gErr) {
		return gErr
	}
	return gqlerror.Wrap(err)
}

func wrapPath(path ast.Path, err error) *gqlerror.Error {
	gErr := asGQLError(err)
	if len(gErr.Path) == 0 {
		gErr.Path = path
	}
	return gErr
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// orderedObject keeps fields in selection order when marshaled.
type orderedObject struct {
	keys   []string
	values []graphql.Marshaler
}

func (o *orderedObject) add(key string, value graphql.Marshaler) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o *orderedObject) MarshalGQL(w io.Writer) {
	_, _ = io.WriteString(w, "{")
	for i, key := range o.keys {
		if i != 0 {
			_, _ = io.WriteString(w, ",")
		}
		graphql.MarshalString(key).MarshalGQL(w)
		_, _ = io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	_, _ = io.WriteString(w, "}")
}
