package docs

// Trait is a reusable set of parameters. Its key in Traits is a definition
// expression such as "paginated(limit)"; every "#limit" inside the trait's
// schemas is replaced by the value given at the use site.
//
// YAML starts a comment at " #", so an expression with an argument after a
// space must be quoted: schema: "integer(1:100, #limit)".
type Trait struct {
	Params  Params `yaml:"params,omitempty"`
	Headers Params `yaml:"headers,omitempty"`
}

type Traits = map[string]Trait
