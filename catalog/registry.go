package catalog

import (
	"sync"

	"github.com/swaggo/swag"
)

// InstanceName is the swag registry name of the compiled document.
const InstanceName = "rentdocs"

type swagDoc struct{}

// ReadDoc implements swag.Swagger.
func (swagDoc) ReadDoc() string {
	bytes, err := JSON()
	if err != nil {
		return ""
	}
	return string(bytes)
}

var registerOnce sync.Once

// Register makes the document readable through swag.ReadDoc(InstanceName).
// Calling it more than once is safe.
func Register() {
	registerOnce.Do(func() {
		swag.Register(InstanceName, swagDoc{})
	})
}
