package docs

type Method struct {
	Id          string    `yaml:"id,omitempty"`
	Summary     string    `yaml:"summary,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Deprecated  bool      `yaml:"deprecated,omitempty"`
	Traits      []string  `yaml:"traits,omitempty"`
	Params      Params    `yaml:"params,omitempty"`
	Headers     Params    `yaml:"headers,omitempty"`
	Security    *[]string `yaml:"security,omitempty"` // nil inherits, empty means public
	Body        *Body     `yaml:"body,omitempty"`
	Responses   Responses `yaml:"responses,omitempty"`
}
