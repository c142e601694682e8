// Package schema holds the todo GraphQL schema and the closed set of fields that it defines.
// Every (object type, field) pair of the schema maps to exactly one Field constant, which the
// handler switches on to select a resolver - field names are only compared here, once.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Field is an "enumeration" of all the resolvable fields in the schema
type Field int

const (
	Unknown Field = iota

	QueryListTodos

	MutationAddTodo
	MutationCompleteTodo
	MutationRemoveTodo
	MutationEditTodo
	MutationToggleAll
	MutationClearCompleted

	TodoID
	TodoDescription
	TodoDone
	TodoCreatedAt

	ConnectionEdges
	ConnectionNodes
	ConnectionTotalCount
	ConnectionPageInfo

	EdgeNode
	EdgeCursor

	PageInfoHasPreviousPage
	PageInfoHasNextPage
	PageInfoStartCursor
	PageInfoEndCursor

	// Introspection (must be kept together, after all other fields - see IsIntrospection)
	QueryIntroSchema
	QueryIntroType

	IntroSchemaDescription
	IntroSchemaTypes
	IntroSchemaQueryType
	IntroSchemaMutationType
	IntroSchemaSubscriptionType
	IntroSchemaDirectives

	IntroTypeKind
	IntroTypeName
	IntroTypeDescription
	IntroTypeFields
	IntroTypeInterfaces
	IntroTypePossibleTypes
	IntroTypeEnumValues
	IntroTypeInputFields
	IntroTypeOfType
	IntroTypeSpecifiedByURL

	IntroFieldName
	IntroFieldDescription
	IntroFieldArgs
	IntroFieldType
	IntroFieldIsDeprecated
	IntroFieldDeprecationReason

	IntroInputValueName
	IntroInputValueDescription
	IntroInputValueType
	IntroInputValueDefaultValue

	IntroEnumValueName
	IntroEnumValueDescription
	IntroEnumValueIsDeprecated
	IntroEnumValueDeprecationReason

	IntroDirectiveName
	IntroDirectiveDescription
	IntroDirectiveLocations
	IntroDirectiveArgs
	IntroDirectiveIsRepeatable

	fieldCount // must be last
)

// Names of the object types
const (
	QueryType      = "Query"
	MutationType   = "Mutation"
	TodoType       = "Todo"
	ConnectionType = "TodoConnection"
	EdgeType       = "TodoEdge"
	PageInfoType   = "PageInfo"

	// built-in introspection types
	MetaSchema     = "__Schema"
	MetaType       = "__Type"
	MetaField      = "__Field"
	MetaInputValue = "__InputValue"
	MetaEnumValue  = "__EnumValue"
	MetaDirective  = "__Directive"
)

// Coord is the schema coordinate of a field, eg Query.listTodos
type Coord struct {
	Type, Name string
}

func (c Coord) String() string { return c.Type + "." + c.Name }

// coords has an entry for every Field (other than Unknown) - the array size means
// that adding a Field without an entry leaves a zero Coord which Check reports
var coords = [fieldCount]Coord{
	QueryListTodos: {QueryType, "listTodos"},

	MutationAddTodo:        {MutationType, "addTodo"},
	MutationCompleteTodo:   {MutationType, "completeTodo"},
	MutationRemoveTodo:     {MutationType, "removeTodo"},
	MutationEditTodo:       {MutationType, "editTodo"},
	MutationToggleAll:      {MutationType, "toggleAll"},
	MutationClearCompleted: {MutationType, "clearCompleted"},

	TodoID:          {TodoType, "id"},
	TodoDescription: {TodoType, "description"},
	TodoDone:        {TodoType, "done"},
	TodoCreatedAt:   {TodoType, "createdAt"},

	ConnectionEdges:      {ConnectionType, "edges"},
	ConnectionNodes:      {ConnectionType, "nodes"},
	ConnectionTotalCount: {ConnectionType, "totalCount"},
	ConnectionPageInfo:   {ConnectionType, "pageInfo"},

	EdgeNode:   {EdgeType, "node"},
	EdgeCursor: {EdgeType, "cursor"},

	PageInfoHasPreviousPage: {PageInfoType, "hasPreviousPage"},
	PageInfoHasNextPage:     {PageInfoType, "hasNextPage"},
	PageInfoStartCursor:     {PageInfoType, "startCursor"},
	PageInfoEndCursor:       {PageInfoType, "endCursor"},

	QueryIntroSchema: {QueryType, "__schema"},
	QueryIntroType:   {QueryType, "__type"},

	IntroSchemaDescription:      {MetaSchema, "description"},
	IntroSchemaTypes:            {MetaSchema, "types"},
	IntroSchemaQueryType:        {MetaSchema, "queryType"},
	IntroSchemaMutationType:     {MetaSchema, "mutationType"},
	IntroSchemaSubscriptionType: {MetaSchema, "subscriptionType"},
	IntroSchemaDirectives:       {MetaSchema, "directives"},

	IntroTypeKind:           {MetaType, "kind"},
	IntroTypeName:           {MetaType, "name"},
	IntroTypeDescription:    {MetaType, "description"},
	IntroTypeFields:         {MetaType, "fields"},
	IntroTypeInterfaces:     {MetaType, "interfaces"},
	IntroTypePossibleTypes:  {MetaType, "possibleTypes"},
	IntroTypeEnumValues:     {MetaType, "enumValues"},
	IntroTypeInputFields:    {MetaType, "inputFields"},
	IntroTypeOfType:         {MetaType, "ofType"},
	IntroTypeSpecifiedByURL: {MetaType, "specifiedByURL"},

	IntroFieldName:              {MetaField, "name"},
	IntroFieldDescription:       {MetaField, "description"},
	IntroFieldArgs:              {MetaField, "args"},
	IntroFieldType:              {MetaField, "type"},
	IntroFieldIsDeprecated:      {MetaField, "isDeprecated"},
	IntroFieldDeprecationReason: {MetaField, "deprecationReason"},

	IntroInputValueName:         {MetaInputValue, "name"},
	IntroInputValueDescription:  {MetaInputValue, "description"},
	IntroInputValueType:         {MetaInputValue, "type"},
	IntroInputValueDefaultValue: {MetaInputValue, "defaultValue"},

	IntroEnumValueName:              {MetaEnumValue, "name"},
	IntroEnumValueDescription:       {MetaEnumValue, "description"},
	IntroEnumValueIsDeprecated:      {MetaEnumValue, "isDeprecated"},
	IntroEnumValueDeprecationReason: {MetaEnumValue, "deprecationReason"},

	IntroDirectiveName:         {MetaDirective, "name"},
	IntroDirectiveDescription:  {MetaDirective, "description"},
	IntroDirectiveLocations:    {MetaDirective, "locations"},
	IntroDirectiveArgs:         {MetaDirective, "args"},
	IntroDirectiveIsRepeatable: {MetaDirective, "isRepeatable"},
}

var lookup = func() map[Coord]Field {
	r := make(map[Coord]Field, fieldCount)
	for f := Unknown + 1; f < fieldCount; f++ {
		r[coords[f]] = f
	}
	return r
}()

// Lookup finds the Field for a field name of an object type
func Lookup(typeName, fieldName string) (Field, bool) {
	f, ok := lookup[Coord{typeName, fieldName}]
	return f, ok
}

// Coord returns the schema coordinate of the field
func (f Field) Coord() Coord {
	if f <= Unknown || f >= fieldCount {
		return Coord{}
	}
	return coords[f]
}

// IsIntrospection is true for the fields of the built-in __Schema, __Type etc. types and
// the __schema and __type fields of the query type
func (f Field) IsIntrospection() bool {
	return f >= QueryIntroSchema && f < fieldCount
}

func (f Field) String() string {
	if c := f.Coord(); c.Type != "" {
		return c.String()
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Check verifies that every field of every object type in s (including the introspection types)
// has a Field, and that every Field exists in s.
func Check(s *ast.Schema) error {
	var problems []string
	for f := Unknown + 1; f < fieldCount; f++ {
		c := coords[f]
		if c.Type == "" {
			problems = append(problems, fmt.Sprintf("Field(%d) has no schema coordinate", int(f)))
			continue
		}
		def := s.Types[c.Type]
		if def == nil || def.Kind != ast.Object || def.Fields.ForName(c.Name) == nil {
			problems = append(problems, fmt.Sprintf("%s is not in the schema", c))
		}
	}
	for name, def := range s.Types {
		if def.Kind != ast.Object {
			continue
		}
		for _, fd := range def.Fields {
			if _, ok := Lookup(name, fd.Name); !ok {
				problems = append(problems, fmt.Sprintf("%s.%s has no resolver", name, fd.Name))
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("schema and resolvers do not match: %s", strings.Join(problems, "; "))
	}
	return nil
}
