package compilation

type Response struct {
	Description string               `json:"description" yaml:"description"`
	Content     map[string]MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

type StatusCode = string

type Example struct {
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Value   any    `json:"value" yaml:"value"`
}

type MediaType struct {
	Schema   SchemaOrRef        `json:"schema" yaml:"schema"`
	Example  any                `json:"example,omitempty" yaml:"example,omitempty"`
	Examples map[string]Example `json:"examples,omitempty" yaml:"examples,omitempty"`
}
