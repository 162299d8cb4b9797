package compilation

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var schemaExprRegex = regexp.MustCompile(`^(?:((?:boolean|string|integer|number|object)\??)(?:\((.*)\))?|(?:<(\w+)>))((?:\??\[[^\]]*\])*)$`)

const componentSchemaPrefix = "#/components/schemas/"

func extractBetween(s string, left, right string) (string, bool) {
	s, ok := strings.CutPrefix(s, left)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(s, right)
}

func parseArraySize(expr string) (min, max uint, err error) {
	opPos := strings.Index(expr, ":")
	if opPos == -1 {
		val, err := strconv.ParseUint(expr, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		return 0, uint(val), nil
	}

	minVal, err := strconv.ParseUint(expr[:opPos], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	maxVal, err := strconv.ParseUint(expr[opPos+1:], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	if minVal > maxVal {
		return 0, 0, fmt.Errorf("array size %v: min greater than max", expr)
	}

	return uint(minVal), uint(maxVal), nil
}

func applyArrayParams(schema *Schema, arrExpr string) error {
	for param := range strings.SplitSeq(arrExpr, ",") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}

		switch param {
		case "*":
			schema.UniqueItems = true
		default:
			min, max, err := parseArraySize(param)
			if err != nil {
				return err
			}
			if min > 0 {
				schema.MinItems = &min
			}
			schema.MaxItems = &max
		}
	}

	return nil
}

func parseArraySchema(element SchemaOrRef, reader *strings.Reader) (Schema, error) {
	ch, _, err := reader.ReadRune()

	if err != nil {
		return Schema{}, err
	}

	schema := Schema{
		Type:  SchemaArray,
		Items: &element,
	}

	// a leading ? makes the array nullable
	if ch == '?' {
		schema.nullable = true
		ch, _, err = reader.ReadRune()
		if err != nil {
			return Schema{}, err
		}
	}

	if ch != '[' {
		return Schema{}, fmt.Errorf("invalid glyph found: %q", ch)
	}

	var result strings.Builder
	for {
		ch, _, err := reader.ReadRune()
		if err == io.EOF {
			return Schema{}, fmt.Errorf("] not found, reached EOF")
		}
		if err != nil {
			return Schema{}, err
		}

		if ch == ']' {
			break
		}

		result.WriteRune(ch)
	}

	if err := applyArrayParams(&schema, result.String()); err != nil {
		return Schema{}, err
	}

	if reader.Len() != 0 {
		return parseArraySchema(NewSchemaDef(schema), reader)
	}

	return schema, nil
}

func valToPtr[T any](value T) *T {
	return &value
}

func parseBound(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

func toLength(v *float64) (*uint, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || *v != float64(uint(*v)) {
		return nil, fmt.Errorf("invalid length bound: %v", *v)
	}
	return valToPtr(uint(*v)), nil
}

// parseRange accepts "min:max", "min<", "<max" and "max>min". Bounds apply
// to the value for numbers and to the length for strings.
func parseRange(schema *Schema, param string) error {
	idx := strings.IndexAny(param, "<>:")

	if idx == -1 {
		return fmt.Errorf("range operator not found")
	}

	left, err := parseBound(param[:idx])
	if err != nil {
		return err
	}
	right, err := parseBound(param[idx+1:])
	if err != nil {
		return err
	}

	var min, max *float64

	switch param[idx] {
	case '<', ':':
		min, max = left, right
	case '>':
		min, max = right, left
	default:
		return fmt.Errorf("unknown range operator: %c", param[idx])
	}

	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("range %v: min greater than max", param)
	}

	switch schema.Type {
	case SchemaInteger, SchemaNumber:
		schema.Minimum = min
		schema.Maximum = max
	case SchemaString:
		if schema.MinLength, err = toLength(min); err != nil {
			return err
		}
		if schema.MaxLength, err = toLength(max); err != nil {
			return err
		}
	default:
		return fmt.Errorf("range not supported for type %v", schema.Type)
	}

	return nil
}

func splitAt(s string, idx int) (string, string) {
	return s[:idx], s[idx:]
}

func parseLiteral(t SchemaType, p string) (any, error) {
	if p == "null" {
		return nil, nil
	}
	switch t {
	case SchemaInteger:
		val, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", p)
		}
		return int(val), nil
	case SchemaNumber:
		val, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", p)
		}
		return val, nil
	case SchemaBoolean:
		switch p {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean value: %s", p)
	case SchemaString:
		if s, ok := extractBetween(p, "\"", "\""); ok {
			return s, nil
		}
		return nil, fmt.Errorf("invalid string value: %s", p)
	}
	return nil, fmt.Errorf("cannot use literal for type: %s", t)
}

func parseObjectSchema(t string, params string) (Schema, error) {
	t, nullable := strings.CutSuffix(t, "?")

	out := Schema{
		Type:     SchemaType(t),
		nullable: nullable,
	}

	if out.Type == SchemaObject {
		out.AdditionalProperties = valToPtr(true)
	}

	handleSigned := func(p string) (bool, error) {
		if len(p) < 2 {
			return false, nil
		}
		sign, rest := splitAt(p, 1)
		switch sign {
		case "$":
			out.Format = rest
			return true, nil
		case "=":
			for value := range strings.SplitSeq(rest, "|") {
				value = strings.TrimSpace(value)
				if out.Type != SchemaString {
					lit, err := parseLiteral(out.Type, value)
					if err != nil {
						return false, err
					}
					out.Enum = append(out.Enum, lit)
					continue
				}
				out.Enum = append(out.Enum, value)
			}
			return true, nil
		}
		return false, nil
	}

	if params == "" {
		return out, nil
	}

	for param := range strings.SplitSeq(params, ",") {
		param = strings.TrimSpace(param)
		if param == "" {
			continue
		}

		if handled, err := handleSigned(param); err != nil {
			return Schema{}, err
		} else if handled {
			continue
		}

		if strings.ContainsAny(param, "<>:") && !strings.HasPrefix(param, "\"") {
			if err := parseRange(&out, param); err != nil {
				return Schema{}, err
			}
			continue
		}

		// anything else is the default value
		value, err := parseLiteral(out.Type, param)
		if err != nil {
			return Schema{}, err
		}
		out.Default = valToPtr(value)
	}

	if out.Default != nil && *out.Default != nil && len(out.Enum) != 0 && !slices.Contains(out.Enum, *out.Default) {
		return Schema{}, fmt.Errorf("default %v is not one of the enum values", *out.Default)
	}

	return out, nil
}

func parseSchema(expr string) (SchemaOrRef, error) {
	expr = strings.TrimSpace(expr)

	sub := schemaExprRegex.FindStringSubmatch(expr)
	if sub == nil {
		return SchemaOrRef{}, fmt.Errorf("%w: %s", ErrInvalidExpression, expr)
	}

	baseType := sub[1] // boolean, string, integer, number, object
	params := sub[2]   // parameters in parentheses
	ref := sub[3]      // reference like <Type>
	arr := sub[4]      // array suffixes

	var out SchemaOrRef

	if ref != "" {
		out = NewSchemaRef(componentSchemaPrefix + ref)
	} else {
		schema, err := parseObjectSchema(baseType, params)
		if err != nil {
			return SchemaOrRef{}, fmt.Errorf("%w %q: %w", ErrInvalidExpression, expr, err)
		}
		out = NewSchemaDef(schema)
	}

	if arr != "" {
		schema, err := parseArraySchema(out, strings.NewReader(arr))
		if err != nil {
			return SchemaOrRef{}, fmt.Errorf("%w %q: %w", ErrInvalidExpression, expr, err)
		}
		return NewSchemaDef(schema), nil
	}

	return out, nil
}

// ParseSchemaWithContext replaces every "#name" in expr with context[name]
// before parsing it.
func ParseSchemaWithContext(expr string, context map[string]string) (SchemaOrRef, error) {
	return parseSchema(argReplacer(context).Replace(expr))
}

// argReplacer substitutes "#name" placeholders. Longer names go first so
// "#limit" is never consumed by "#l".
func argReplacer(values map[string]string) *strings.Replacer {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	oldnew := make([]string, 0, len(values)*2)
	for _, name := range names {
		oldnew = append(oldnew, "#"+name, values[name])
	}
	return strings.NewReplacer(oldnew...)
}
