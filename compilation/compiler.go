package compilation

import (
	"encoding/json"
	"fmt"
	"maps"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/masnyjimmy/rentdocs/docs"
)

type CompileContext struct {
	in  *docs.Document
	out *Document

	defaultResponses map[StatusCode]Response
	compiledTraits   map[string]PrecompiledTrait
	operationIds     map[string]string
}

type PrecompiledTrait struct {
	args   []string
	target docs.Trait
}

func substituteSchema(schema docs.Schema, r *strings.Replacer) docs.Schema {
	switch t := schema.Value.(type) {
	case string:
		return docs.Schema{
			Value: r.Replace(t),
		}
	case docs.Properties:
		props := make(docs.Properties, len(t))
		for idx, prop := range t {
			props[idx] = docs.Property{
				Name:   prop.Name,
				Schema: substituteSchema(prop.Schema, r),
			}
		}
		return docs.Schema{
			Value: props,
		}
	default:
		return schema
	}
}

func substituteParams(params docs.Params, r *strings.Replacer) docs.Params {
	if params == nil {
		return nil
	}
	out := make(docs.Params, len(params))
	for idx, param := range params {
		param.Schema = substituteSchema(param.Schema, r)
		out[idx] = param
	}
	return out
}

// Compile returns a copy of the trait with every "#arg" replaced by the
// matching value. The definition itself is left untouched.
func (p PrecompiledTrait) Compile(values []string) (docs.Trait, error) {
	if len(p.args) != len(values) {
		return docs.Trait{}, fmt.Errorf("%w: invalid number of values: %v (expected: %v)", ErrInvalidTrait, len(values), len(p.args))
	}

	context := make(map[string]string, len(p.args))
	for idx, arg := range p.args {
		context[arg] = values[idx]
	}

	replacer := argReplacer(context)

	return docs.Trait{
		Params:  substituteParams(p.target.Params, replacer),
		Headers: substituteParams(p.target.Headers, replacer),
	}, nil
}

func MapArray[T ~[]I, U ~[]O, I any, O any](in T, out *U, mapFn func(idx int, in I) O) {
	(*out) = make(U, len(in))

	for idx, val := range in {
		(*out)[idx] = mapFn(idx, val)
	}
}

func newCompileContext(input *docs.Document, output *Document) *CompileContext {
	return &CompileContext{
		in:           input,
		out:          output,
		operationIds: make(map[string]string),
	}
}

func (c *CompileContext) CompileInfo() {
	c.out.Info.Title = c.in.Info.Title
	c.out.Info.Version = c.in.Info.Version
	c.out.Info.Description = c.in.Info.Description
}

func (c *CompileContext) CompileServers() {
	MapArray(c.in.Servers, &c.out.Servers, func(idx int, in docs.Server) Server {
		return Server{
			Url:         in.Url,
			Description: in.Description,
		}
	})
}

func (c *CompileContext) CompileTags() {
	MapArray(c.in.Tags, &c.out.Tags, func(idx int, in docs.Tag) Tag {
		return Tag{
			Name:        in.Name,
			Description: in.Description,
		}
	})
}

func (c *CompileContext) requirements(names []string) ([]SecurityRequirement, error) {
	out := make([]SecurityRequirement, 0, len(names))
	for _, name := range names {
		if _, ok := c.in.SecuritySchemes[name]; !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnknownSecurityScheme, name)
		}
		out = append(out, SecurityRequirement{name: []string{}})
	}
	return out, nil
}

func (c *CompileContext) CompileSecurity() error {
	if len(c.in.SecuritySchemes) != 0 {
		c.out.Components.SecuritySchemes = make(map[string]SecurityScheme, len(c.in.SecuritySchemes))
	}

	for name, scheme := range c.in.SecuritySchemes {
		c.out.Components.SecuritySchemes[name] = SecurityScheme{
			Type:         scheme.Type,
			Scheme:       scheme.Scheme,
			BearerFormat: scheme.BearerFormat,
			In:           scheme.In,
			Name:         scheme.Name,
			Description:  scheme.Description,
		}
	}

	if len(c.in.Security) == 0 {
		return nil
	}

	security, err := c.requirements(c.in.Security)
	if err != nil {
		return err
	}
	c.out.Security = security
	return nil
}

func (c *CompileContext) ParseSchema(schema docs.Schema) (SchemaOrRef, error) {
	switch v := schema.Value.(type) {
	case string: // expr
		return parseSchema(v)
	case docs.Properties:
		object := Schema{
			Type:       SchemaObject,
			Required:   make([]string, 0),
			Properties: make(Properties, 0),
		}
		for _, property := range v {
			name, opt := strings.CutSuffix(property.Name, "?")
			schema, err := c.ParseSchema(property.Schema)
			if err != nil {
				return SchemaOrRef{}, fmt.Errorf("%v: %w", name, err)
			}

			object.Properties = append(object.Properties, Property{
				Name:   name,
				Schema: schema,
			})

			if !opt {
				object.Required = append(object.Required, name)
			}
		}
		return NewSchemaDef(object), nil
	default:
		return SchemaOrRef{}, fmt.Errorf("%w: unsupported schema value %T", ErrInvalidExpression, v)
	}
}

func (c *CompileContext) ParseSchemas() error {

	if c.out.Components.Schemas == nil {
		c.out.Components.Schemas = make(map[string]Schema)
	}

	for _, name := range slices.Sorted(maps.Keys(c.in.Schemas)) {
		schemaOrRef, err := c.ParseSchema(c.in.Schemas[name])
		if err != nil {
			return fmt.Errorf("schema %v: %w", name, err)
		}

		schema, ok := schemaOrRef.GetSchema()
		if !ok {
			return fmt.Errorf("schema %v: schema ref when schema expected", name)
		}
		c.out.Components.Schemas[name] = schema
	}
	return nil
}

func convertExamples(in docs.Examples) map[string]Example {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]Example, len(in))
	for name, ex := range in {
		out[name] = Example{
			Summary: ex.Summary,
			Value:   ex.Value,
		}
	}
	return out
}

func (c *CompileContext) compileContent(content docs.TypedSchema, example any, examples docs.Examples) (map[string]MediaType, error) {
	if len(content) == 0 {
		return nil, nil
	}

	out := make(map[string]MediaType, len(content))
	for mediaType, schema := range content {
		outSchema, err := c.ParseSchema(schema)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", mediaType, err)
		}

		out[mediaType] = MediaType{
			Schema:   outSchema,
			Example:  example,
			Examples: convertExamples(examples),
		}
	}
	return out, nil
}

func (c *CompileContext) compileResponse(response docs.Response) (Response, error) {
	content, err := c.compileContent(response.TypedSchema, response.Example, response.Examples)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Description: response.Description,
		Content:     content,
	}, nil
}

func (c *CompileContext) ParseDefaultResponses() error {

	c.defaultResponses = make(map[StatusCode]Response, len(c.in.DefaultResponses))

	for statusCode, response := range c.in.DefaultResponses {
		outResponse, err := c.compileResponse(response)
		if err != nil {
			return fmt.Errorf("default response %v: %w", statusCode, err)
		}
		c.defaultResponses[statusCode] = outResponse
	}

	return nil
}

var traitEvExpr = regexp.MustCompile(`^([A-Za-z_]\w*)(?:\(\s*([^()]+?)\s*\))?$`)

func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}

	out := make([]string, 0)
	for arg := range strings.SplitSeq(args, ",") {
		out = append(out, strings.TrimSpace(arg))
	}
	return out
}

func (c *CompileContext) compileTraits() error {
	c.compiledTraits = make(map[string]PrecompiledTrait, len(c.in.Traits))

	for expr, trait := range c.in.Traits {
		exprGrp := traitEvExpr.FindStringSubmatch(expr)
		if exprGrp == nil {
			return fmt.Errorf("%w: invalid trait definition expression: %v", ErrInvalidTrait, expr)
		}
		ident := exprGrp[1]

		if _, dup := c.compiledTraits[ident]; dup {
			return fmt.Errorf("%w: trait %v defined twice", ErrInvalidTrait, ident)
		}

		c.compiledTraits[ident] = PrecompiledTrait{
			args:   splitArgs(exprGrp[2]),
			target: trait,
		}
	}
	return nil
}

func (c *CompileContext) evaluateTrait(expr string) (docs.Trait, error) {
	groups := traitEvExpr.FindStringSubmatch(strings.TrimSpace(expr))

	if groups == nil {
		return docs.Trait{}, fmt.Errorf("%w: invalid trait evaluate expression: %v, expected: ident[(arg(,args)...)]", ErrInvalidTrait, expr)
	}

	trait, has := c.compiledTraits[groups[1]]

	if !has {
		return docs.Trait{}, fmt.Errorf("%w: %v", ErrUnknownTrait, groups[1])
	}

	return trait.Compile(splitArgs(groups[2]))
}

func (c *CompileContext) evaluateTraits(traits []string) ([]docs.Trait, error) {
	if traits == nil {
		return nil, nil
	}

	var out []docs.Trait = make([]docs.Trait, len(traits))

	for idx, in := range traits {
		res, err := c.evaluateTrait(in)
		if err != nil {
			return nil, err
		}
		out[idx] = res
	}

	return out, nil
}

var pathVarExpr = regexp.MustCompile(`\{(\w+)\}`)

func pathVariables(p string) []string {
	matches := pathVarExpr.FindAllStringSubmatch(p, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// defaultOperationId builds ids like getCustomersById for GET /customers/{id}.
func defaultOperationId(method, p string) string {
	var b strings.Builder
	b.WriteString(method)

	for segment := range strings.SplitSeq(p, "/") {
		if segment == "" {
			continue
		}
		if name, ok := extractBetween(segment, "{", "}"); ok {
			b.WriteString("By")
			b.WriteString(capitalize(name))
			continue
		}
		for word := range strings.FieldsFuncSeq(segment, func(r rune) bool {
			return r == '-' || r == '_' || r == '.'
		}) {
			b.WriteString(capitalize(word))
		}
	}
	return b.String()
}

func (c *CompileContext) parseMethod(method *docs.Method, httpMethod string, tags []string, path string) (*Operation, error) {
	if method == nil {
		return nil, nil
	}

	makeParam := func(p *docs.Param, in ParamIn) (Parameter, error) {
		// a query param named like a {var} of the path is a path param
		if in == InQuery && strings.Contains(path, "{"+p.Name+"}") {
			in = InPath
		}

		schema, err := c.ParseSchema(p.Schema)
		if err != nil {
			return Parameter{}, fmt.Errorf("param %v: %w", p.Name, err)
		}

		return Parameter{
			Name:        p.Name,
			In:          in,
			Description: p.Description,
			Required:    p.Required || in == InPath,
			Schema:      schema,
			Example:     p.Example,
		}, nil
	}

	traits, err := c.evaluateTraits(method.Traits)

	if err != nil {
		return nil, err
	}

	operationId := method.Id
	if operationId == "" {
		operationId = defaultOperationId(httpMethod, path)
	}

	location := strings.ToUpper(httpMethod) + " " + path
	if other, dup := c.operationIds[operationId]; dup {
		return nil, fmt.Errorf("%w: %v used by %v and %v", ErrDuplicateOperation, operationId, other, location)
	}
	c.operationIds[operationId] = location

	out := Operation{
		OperationId: operationId,
		Summary:     method.Summary,
		Description: method.Description,
		Deprecated:  method.Deprecated,
		Tags:        tags,
		Parameters:  make([]Parameter, 0),
		Responses:   maps.Clone(c.defaultResponses),
	}

	if out.Responses == nil {
		out.Responses = make(map[StatusCode]Response)
	}

	collect := func(params docs.Params, in ParamIn) error {
		for _, v := range params {
			outParam, err := makeParam(&v, in)
			if err != nil {
				return err
			}
			out.Parameters = append(out.Parameters, outParam)
		}
		return nil
	}

	if err := collect(method.Params, InQuery); err != nil {
		return nil, err
	}
	if err := collect(method.Headers, InHeader); err != nil {
		return nil, err
	}

	for _, t := range traits {
		if err := collect(t.Params, InQuery); err != nil {
			return nil, err
		}
		if err := collect(t.Headers, InHeader); err != nil {
			return nil, err
		}
	}

	// undeclared path variables
	for _, name := range pathVariables(path) {
		declared := slices.ContainsFunc(out.Parameters, func(p Parameter) bool {
			return p.In == InPath && p.Name == name
		})
		if declared {
			continue
		}
		out.Parameters = append(out.Parameters, Parameter{
			Name:     name,
			In:       InPath,
			Required: true,
			Schema:   NewSchemaDef(Schema{Type: SchemaString}),
		})
	}

	if method.Security != nil {
		security, err := c.requirements(*method.Security)
		if err != nil {
			return nil, err
		}
		out.Security = &security
	}

	if method.Body != nil {
		content, err := c.compileContent(method.Body.TypedSchema, method.Body.Example, method.Body.Examples)
		if err != nil {
			return nil, fmt.Errorf("body: %w", err)
		}

		out.RequestBody = &RequestBody{
			Required:    !method.Body.Optional,
			Description: method.Body.Description,
			Content:     content,
		}
	}

	for statusCode, response := range method.Responses {
		outResponse, err := c.compileResponse(response)
		if err != nil {
			return nil, fmt.Errorf("response %v: %w", statusCode, err)
		}

		out.Responses[statusCode] = outResponse
	}

	return &out, nil
}

func mergeTags(own, inherited []string) []string {
	out := make([]string, 0, len(own)+len(inherited))
	for _, tag := range slices.Concat(own, inherited) {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

func (c *CompileContext) ParsePaths() error {

	c.out.Paths = make(map[string]Path)

	var collectPaths func(currentPath string, p docs.Path) error

	collectPaths = func(currentPath string, current docs.Path) error {
		if current.HasAnyMethod() {
			outPath := c.out.Paths[currentPath]
			methods := current.Methods()

			for _, name := range Methods {
				if outPath.Operation(name) != nil && methods[name] != nil {
					return fmt.Errorf("%v %v declared twice", strings.ToUpper(name), currentPath)
				}
				op, err := c.parseMethod(methods[name], name, current.Tags, currentPath)
				if err != nil {
					return fmt.Errorf("%v %v: %w", strings.ToUpper(name), currentPath, err)
				}
				if op != nil {
					outPath.setOperation(name, op)
				}
			}

			c.out.Paths[currentPath] = outPath
		}

		for _, nextPath := range slices.Sorted(maps.Keys(current.Nested)) {
			next := current.Nested[nextPath]
			next.Tags = mergeTags(next.Tags, current.Tags)
			if err := collectPaths(path.Join(currentPath, nextPath), next); err != nil {
				return err
			}
		}
		return nil
	}

	for _, currentPath := range slices.Sorted(maps.Keys(c.in.Paths)) {
		if err := collectPaths(currentPath, c.in.Paths[currentPath]); err != nil {
			return fmt.Errorf("unable to collect paths: %w", err)
		}
	}
	return nil
}

func (c *CompileContext) Parse() error {
	c.CompileInfo()

	c.CompileServers()

	c.CompileTags()

	if err := c.CompileSecurity(); err != nil {
		return err
	}

	if err := c.ParseSchemas(); err != nil {
		return err
	}

	if err := c.ParseDefaultResponses(); err != nil {
		return err
	}

	if err := c.compileTraits(); err != nil {
		return err
	}

	if err := c.ParsePaths(); err != nil {
		return err
	}

	return CheckRefs(c.out)
}

func Compile(out *Document, in *docs.Document) error {
	ctx := newCompileContext(in, out)

	if err := ctx.Parse(); err != nil {
		return err
	}

	return nil
}

// CompileDocument compiles in into a new OpenAPI document.
func CompileDocument(in *docs.Document) (*Document, error) {
	out := &Document{
		Openapi: OpenAPIVersion,
	}

	if err := Compile(out, in); err != nil {
		return nil, err
	}

	return out, nil
}

func CompileToJSON(in *docs.Document) ([]byte, error) {
	out, err := CompileDocument(in)
	if err != nil {
		return nil, err
	}
	return MarshalJSON(out)
}

func CompileToYAML(in *docs.Document) ([]byte, error) {
	out, err := CompileDocument(in)
	if err != nil {
		return nil, err
	}
	return MarshalYAML(out)
}

func MarshalJSON(doc *Document) ([]byte, error) {
	bytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return bytes, nil
}

func MarshalYAML(doc *Document) ([]byte, error) {
	bytes, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return bytes, nil
}
