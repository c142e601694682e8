package handler

// introspection.go resolves the GraphQL __schema and __type queries from the *ast.Schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/andrewwphillips/todoql/internal/schema"
)

type (
	// typeRef is the value of a __Type - a list or non-null wrapper of another type (t), or a named type (def)
	typeRef struct {
		t   *ast.Type
		def *ast.Definition
	}

	// inputValue is the value of an __InputValue: an argument of a field or directive, or a field of an input type
	inputValue struct {
		name, description string
		typ               *ast.Type
		defaultValue      *ast.Value
	}
)

const defaultDeprecationReason = "No longer supported"

// introspect resolves the introspection field f of parent
func (op *gqlOperation) introspect(f schema.Field, args map[string]interface{}, parent interface{}) (interface{}, error) {
	switch f {
	case schema.QueryIntroSchema:
		return op.schema, nil
	case schema.QueryIntroType:
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		if def := op.schema.Types[name]; def != nil {
			return typeRef{def: def}, nil
		}
		return nil, nil

	case schema.IntroSchemaDescription:
		return optionalString(parent.(*ast.Schema).Description), nil
	case schema.IntroSchemaTypes:
		s := parent.(*ast.Schema)
		r := make([]typeRef, 0, len(s.Types))
		for _, def := range s.Types {
			r = append(r, typeRef{def: def})
		}
		sort.Slice(r, func(i, j int) bool { return r[i].def.Name < r[j].def.Name })
		return r, nil
	case schema.IntroSchemaQueryType:
		return namedType(parent.(*ast.Schema).Query), nil
	case schema.IntroSchemaMutationType:
		return namedType(parent.(*ast.Schema).Mutation), nil
	case schema.IntroSchemaSubscriptionType:
		return namedType(parent.(*ast.Schema).Subscription), nil
	case schema.IntroSchemaDirectives:
		s := parent.(*ast.Schema)
		r := make([]*ast.DirectiveDefinition, 0, len(s.Directives))
		for _, d := range s.Directives {
			r = append(r, d)
		}
		sort.Slice(r, func(i, j int) bool { return r[i].Name < r[j].Name })
		return r, nil

	case schema.IntroTypeKind:
		return parent.(typeRef).kind(), nil
	case schema.IntroTypeName:
		if tr := parent.(typeRef); tr.def != nil {
			return tr.def.Name, nil
		}
		return nil, nil
	case schema.IntroTypeDescription:
		if tr := parent.(typeRef); tr.def != nil {
			return optionalString(tr.def.Description), nil
		}
		return nil, nil
	case schema.IntroTypeFields:
		def := parent.(typeRef).def
		if def == nil || (def.Kind != ast.Object && def.Kind != ast.Interface) {
			return nil, nil
		}
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		r := make([]*ast.FieldDefinition, 0, len(def.Fields))
		for _, fd := range def.Fields {
			if strings.HasPrefix(fd.Name, "__") {
				continue // __schema and __type are not listed
			}
			if deprecated, _ := deprecation(fd.Directives); deprecated && !includeDeprecated {
				continue
			}
			r = append(r, fd)
		}
		return r, nil
	case schema.IntroTypeInterfaces:
		def := parent.(typeRef).def
		if def == nil || (def.Kind != ast.Object && def.Kind != ast.Interface) {
			return nil, nil
		}
		r := make([]typeRef, 0, len(def.Interfaces))
		for _, name := range def.Interfaces {
			r = append(r, typeRef{def: op.schema.Types[name]})
		}
		return r, nil
	case schema.IntroTypePossibleTypes:
		def := parent.(typeRef).def
		if def == nil || !def.IsAbstractType() {
			return nil, nil
		}
		r := make([]typeRef, 0, len(op.schema.PossibleTypes[def.Name]))
		for _, possible := range op.schema.PossibleTypes[def.Name] {
			r = append(r, typeRef{def: possible})
		}
		return r, nil
	case schema.IntroTypeEnumValues:
		def := parent.(typeRef).def
		if def == nil || def.Kind != ast.Enum {
			return nil, nil
		}
		includeDeprecated, _ := args["includeDeprecated"].(bool)
		r := make([]*ast.EnumValueDefinition, 0, len(def.EnumValues))
		for _, v := range def.EnumValues {
			if deprecated, _ := deprecation(v.Directives); deprecated && !includeDeprecated {
				continue
			}
			r = append(r, v)
		}
		return r, nil
	case schema.IntroTypeInputFields:
		def := parent.(typeRef).def
		if def == nil || def.Kind != ast.InputObject {
			return nil, nil
		}
		r := make([]inputValue, 0, len(def.Fields))
		for _, fd := range def.Fields {
			r = append(r, inputValue{fd.Name, fd.Description, fd.Type, fd.DefaultValue})
		}
		return r, nil
	case schema.IntroTypeOfType:
		return op.ofType(parent.(typeRef)), nil
	case schema.IntroTypeSpecifiedByURL:
		def := parent.(typeRef).def
		if def == nil || def.Kind != ast.Scalar {
			return nil, nil
		}
		if d := def.Directives.ForName("specifiedBy"); d != nil {
			if arg := d.Arguments.ForName("url"); arg != nil && arg.Value != nil {
				return arg.Value.Raw, nil
			}
		}
		return nil, nil

	case schema.IntroFieldName:
		return parent.(*ast.FieldDefinition).Name, nil
	case schema.IntroFieldDescription:
		return optionalString(parent.(*ast.FieldDefinition).Description), nil
	case schema.IntroFieldArgs:
		return argumentValues(parent.(*ast.FieldDefinition).Arguments), nil
	case schema.IntroFieldType:
		return op.typeOf(parent.(*ast.FieldDefinition).Type), nil
	case schema.IntroFieldIsDeprecated:
		deprecated, _ := deprecation(parent.(*ast.FieldDefinition).Directives)
		return deprecated, nil
	case schema.IntroFieldDeprecationReason:
		_, reason := deprecation(parent.(*ast.FieldDefinition).Directives)
		return reason, nil

	case schema.IntroInputValueName:
		return parent.(inputValue).name, nil
	case schema.IntroInputValueDescription:
		return optionalString(parent.(inputValue).description), nil
	case schema.IntroInputValueType:
		return op.typeOf(parent.(inputValue).typ), nil
	case schema.IntroInputValueDefaultValue:
		if v := parent.(inputValue).defaultValue; v != nil {
			return v.String(), nil
		}
		return nil, nil

	case schema.IntroEnumValueName:
		return parent.(*ast.EnumValueDefinition).Name, nil
	case schema.IntroEnumValueDescription:
		return optionalString(parent.(*ast.EnumValueDefinition).Description), nil
	case schema.IntroEnumValueIsDeprecated:
		deprecated, _ := deprecation(parent.(*ast.EnumValueDefinition).Directives)
		return deprecated, nil
	case schema.IntroEnumValueDeprecationReason:
		_, reason := deprecation(parent.(*ast.EnumValueDefinition).Directives)
		return reason, nil

	case schema.IntroDirectiveName:
		return parent.(*ast.DirectiveDefinition).Name, nil
	case schema.IntroDirectiveDescription:
		return optionalString(parent.(*ast.DirectiveDefinition).Description), nil
	case schema.IntroDirectiveLocations:
		locations := parent.(*ast.DirectiveDefinition).Locations
		r := make([]interface{}, 0, len(locations))
		for _, loc := range locations {
			r = append(r, string(loc))
		}
		return r, nil
	case schema.IntroDirectiveArgs:
		return argumentValues(parent.(*ast.DirectiveDefinition).Arguments), nil
	case schema.IntroDirectiveIsRepeatable:
		return parent.(*ast.DirectiveDefinition).IsRepeatable, nil
	}
	return nil, fmt.Errorf("introspection field %s is not implemented", f)
}

// typeOf returns the __Type of a field or argument type
func (op *gqlOperation) typeOf(t *ast.Type) typeRef {
	if t.NonNull || t.Elem != nil {
		return typeRef{t: t}
	}
	return typeRef{def: op.schema.Types[t.NamedType]}
}

// ofType unwraps one level of a list or non-null type
func (op *gqlOperation) ofType(tr typeRef) interface{} {
	switch {
	case tr.t == nil:
		return nil
	case tr.t.NonNull:
		inner := *tr.t
		inner.NonNull = false
		return op.typeOf(&inner)
	default:
		return op.typeOf(tr.t.Elem)
	}
}

// kind is the __TypeKind enum value
func (tr typeRef) kind() string {
	switch {
	case tr.t != nil && tr.t.NonNull:
		return "NON_NULL"
	case tr.t != nil:
		return "LIST"
	}
	return string(tr.def.Kind)
}

// namedType returns a __Type for def, or nil (JSON null) if there is no such type
func namedType(def *ast.Definition) interface{} {
	if def == nil {
		return nil
	}
	return typeRef{def: def}
}

func argumentValues(args ast.ArgumentDefinitionList) []inputValue {
	r := make([]inputValue, 0, len(args))
	for _, arg := range args {
		r = append(r, inputValue{arg.Name, arg.Description, arg.Type, arg.DefaultValue})
	}
	return r
}

// deprecation returns whether there is a @deprecated directive and its reason (nil if not deprecated)
func deprecation(directives ast.DirectiveList) (bool, interface{}) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, nil
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return true, arg.Value.Raw
	}
	return true, defaultDeprecationReason
}

// optionalString returns nil (JSON null) for an empty description
func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
