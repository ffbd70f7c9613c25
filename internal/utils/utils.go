package utils

import "github.com/vektah/gqlparser/v2/ast"

// IsTypeDefSubTypeOf reports whether maybeSubType can stand in for superType.
// *ast.Definition carries no list or nullability information, so only named
// types are compared.
func IsTypeDefSubTypeOf(schema *ast.Schema, maybeSubType, superType *ast.Definition) bool {
	if maybeSubType == nil || superType == nil {
		return false
	}
	if maybeSubType == superType {
		return true
	}

	if !IsAbstractType(superType) {
		return false
	}
	if maybeSubType.Kind != ast.Interface && maybeSubType.Kind != ast.Object {
		return false
	}
	for _, def := range schema.GetPossibleTypes(superType) {
		if def == maybeSubType {
			return true
		}
	}
	return false
}

func IsAbstractType(def *ast.Definition) bool {
	if def == nil {
		return false
	}
	switch def.Kind {
	case ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

func IsLeafType(def *ast.Definition) bool {
	if def == nil {
		return false
	}
	switch def.Kind {
	case ast.Scalar, ast.Enum:
		return true
	default:
		return false
	}
}

func IsObjectType(def *ast.Definition) bool {
	return def != nil && def.Kind == ast.Object
}

// FragmentOnly reports whether doc defines fragments but no operation.
func FragmentOnly(doc *ast.QueryDocument) bool {
	return doc != nil && len(doc.Operations) == 0 && len(doc.Fragments) != 0
}
