package docs

type Param struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Schema      Schema `yaml:"schema"`
	Required    bool   `yaml:"required"`
	Example     any    `yaml:"example,omitempty"`
}

type Params = []Param
