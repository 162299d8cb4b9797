// Package docs holds the compact authoring format of an API document.
//
// A document written in this format is validated by package validation and
// turned into an OpenAPI document by package compilation.
package docs

type Info struct {
	Title       string `yaml:"title"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

type Server struct {
	Url         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

type Tag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// SecurityScheme mirrors the OpenAPI security scheme object. Only the fields
// needed for http (bearer/basic) and apiKey schemes are supported.
type SecurityScheme struct {
	Type         string `yaml:"type"`
	Scheme       string `yaml:"scheme,omitempty"`
	BearerFormat string `yaml:"bearerFormat,omitempty"`
	In           string `yaml:"in,omitempty"`
	Name         string `yaml:"name,omitempty"`
	Description  string `yaml:"description,omitempty"`
}

type Document struct {
	Info             Info                      `yaml:"info"`
	Servers          []Server                  `yaml:"servers"`
	Tags             []Tag                     `yaml:"tags,omitempty"`
	SecuritySchemes  map[string]SecurityScheme `yaml:"securitySchemes,omitempty"`
	Security         []string                  `yaml:"security,omitempty"`
	Schemas          map[string]Schema         `yaml:"schemas,omitempty"`
	Traits           Traits                    `yaml:"traits,omitempty"`
	DefaultResponses Responses                 `yaml:"defaultResponses,omitempty"`
	Paths            Paths                     `yaml:"paths,omitempty"`
}
