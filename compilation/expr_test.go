package compilation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fulldump/biff"
)

func mustSchema(expr string) Schema {
	out, err := parseSchema(expr)
	biff.AssertNil(err)
	schema, ok := out.GetSchema()
	biff.AssertTrue(ok)
	return schema
}

func TestParseSchema(t *testing.T) {

	biff.Alternative("Schema expressions", func(a *biff.A) {

		a.Alternative("Plain type", func(a *biff.A) {
			s := mustSchema("string")
			biff.AssertEqual(s.Type, SchemaString)
			biff.AssertFalse(s.Nullable())
		})

		a.Alternative("Nullable type", func(a *biff.A) {
			s := mustSchema("integer?")
			biff.AssertEqual(s.Type, SchemaInteger)
			biff.AssertTrue(s.Nullable())
		})

		a.Alternative("Numeric range with default", func(a *biff.A) {
			s := mustSchema("integer(1:100, 20)")
			biff.AssertEqual(*s.Minimum, 1.0)
			biff.AssertEqual(*s.Maximum, 100.0)
			biff.AssertEqual(*s.Default, any(20))
		})

		a.Alternative("Open ranges", func(a *biff.A) {
			s := mustSchema("number(0<)")
			biff.AssertEqual(*s.Minimum, 0.0)
			biff.AssertTrue(s.Maximum == nil)

			s = mustSchema("number(<9.5)")
			biff.AssertTrue(s.Minimum == nil)
			biff.AssertEqual(*s.Maximum, 9.5)

			s = mustSchema("integer(10>2)")
			biff.AssertEqual(*s.Minimum, 2.0)
			biff.AssertEqual(*s.Maximum, 10.0)
		})

		a.Alternative("String range is a length", func(a *biff.A) {
			s := mustSchema("string(3:64)")
			biff.AssertEqual(*s.MinLength, uint(3))
			biff.AssertEqual(*s.MaxLength, uint(64))
			biff.AssertTrue(s.Minimum == nil)
		})

		a.Alternative("Format", func(a *biff.A) {
			s := mustSchema("string($email)")
			biff.AssertEqual(s.Format, "email")
		})

		a.Alternative("String enum with default", func(a *biff.A) {
			s := mustSchema(`string(=draft|signed|cancelled, "draft")`)
			biff.AssertEqual(s.Enum, []any{"draft", "signed", "cancelled"})
			biff.AssertEqual(*s.Default, any("draft"))
		})

		a.Alternative("Integer enum", func(a *biff.A) {
			s := mustSchema("integer(=1|2|3)")
			biff.AssertEqual(s.Enum, []any{1, 2, 3})
		})

		a.Alternative("Free form object", func(a *biff.A) {
			s := mustSchema("object")
			biff.AssertEqual(s.Type, SchemaObject)
			biff.AssertEqual(*s.AdditionalProperties, true)
		})

		a.Alternative("Reference", func(a *biff.A) {
			out, err := parseSchema("<Customer>")
			biff.AssertNil(err)
			ref, ok := out.GetRef()
			biff.AssertTrue(ok)
			biff.AssertEqual(ref, "#/components/schemas/Customer")
		})

		a.Alternative("Array of references", func(a *biff.A) {
			s := mustSchema("<Dress>[]")
			biff.AssertEqual(s.Type, SchemaArray)
			ref, ok := s.Items.GetRef()
			biff.AssertTrue(ok)
			biff.AssertEqual(ref, "#/components/schemas/Dress")
		})

		a.Alternative("Unique sized array", func(a *biff.A) {
			s := mustSchema("string[*, 1:5]")
			biff.AssertTrue(s.UniqueItems)
			biff.AssertEqual(*s.MinItems, uint(1))
			biff.AssertEqual(*s.MaxItems, uint(5))
		})

		a.Alternative("Nullable array", func(a *biff.A) {
			s := mustSchema("<Dress>?[]")
			biff.AssertEqual(s.Type, SchemaArray)
			biff.AssertTrue(s.Nullable())
		})

		a.Alternative("Nested arrays", func(a *biff.A) {
			s := mustSchema("integer[][2]")
			biff.AssertEqual(s.Type, SchemaArray)
			biff.AssertEqual(*s.MaxItems, uint(2))

			inner, ok := s.Items.GetSchema()
			biff.AssertTrue(ok)
			biff.AssertEqual(inner.Type, SchemaArray)
			biff.AssertTrue(inner.MaxItems == nil)

			element, ok := inner.Items.GetSchema()
			biff.AssertTrue(ok)
			biff.AssertEqual(element.Type, SchemaInteger)
		})
	})
}

func TestParseSchemaErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"text",
		"<Customer",
		"string(5:1)",
		"boolean(1:2)",
		"integer(abc)",
		`string(=a|b, "c")`,
		"string(-1:4)",
		"string[3:1]",
	} {
		_, err := parseSchema(expr)
		if !errors.Is(err, ErrInvalidExpression) {
			t.Errorf("parseSchema(%q) = %v, want ErrInvalidExpression", expr, err)
		}
	}
}

func TestParseSchemaWithContext(t *testing.T) {
	out, err := ParseSchemaWithContext("integer(1:#max, #def)", map[string]string{
		"max": "100",
		"def": "25",
		"m":   "broken",
	})
	biff.AssertNil(err)

	s, ok := out.GetSchema()
	biff.AssertTrue(ok)
	biff.AssertEqual(*s.Maximum, 100.0)
	biff.AssertEqual(*s.Default, any(25))
}

func TestSchemaJSON(t *testing.T) {

	biff.Alternative("Schema JSON", func(a *biff.A) {

		a.Alternative("Nullable renders oneOf", func(a *biff.A) {
			out, err := json.Marshal(NewSchemaDef(Schema{Type: SchemaString, nullable: true}))
			biff.AssertNil(err)
			biff.AssertEqual(string(out), `{"oneOf":[{"type":"null"},{"type":"string"}]}`)
		})

		a.Alternative("Properties keep declaration order", func(a *biff.A) {
			s := Schema{
				Type: SchemaObject,
				Properties: Properties{
					{Name: "zeta", Schema: NewSchemaDef(Schema{Type: SchemaString})},
					{Name: "alpha", Schema: NewSchemaRef("#/components/schemas/Dress")},
				},
			}
			out, err := json.Marshal(s)
			biff.AssertNil(err)
			biff.AssertEqual(string(out), `{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"$ref":"#/components/schemas/Dress"}}}`)
		})

		a.Alternative("Nullable survives a round trip", func(a *biff.A) {
			var s SchemaOrRef
			err := json.Unmarshal([]byte(`{"oneOf":[{"type":"null"},{"type":"integer","minimum":1}]}`), &s)
			biff.AssertNil(err)

			schema, ok := s.GetSchema()
			biff.AssertTrue(ok)
			biff.AssertTrue(schema.Nullable())
			biff.AssertEqual(schema.Type, SchemaInteger)
			biff.AssertEqual(*schema.Minimum, 1.0)
		})
	})
}
