package compilation

type Operation struct {
	Summary     string                  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	OperationId string                  `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string                `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated  bool                    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Parameters  []Parameter             `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody            `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[StatusCode]Response `json:"responses,omitempty" yaml:"responses,omitempty"`

	// nil inherits the document requirements; an empty slice marks the
	// operation as public.
	Security *[]SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
}

// IsPublic reports whether the operation explicitly opts out of security.
func (o *Operation) IsPublic() bool {
	return o.Security != nil && len(*o.Security) == 0
}
