package swagger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// registeredDoc serves a frozen JSON encoding through swag.Swagger.
type registeredDoc struct {
	body string
}

func (d registeredDoc) ReadDoc() string {
	return d.body
}

// Register publishes doc in the swag registry under name (swag.Name when
// empty) so swag-aware documentation handlers can serve it.
func Register(name string, doc *openapi3.T) error {
	if doc == nil {
		return fmt.Errorf("openapi document is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = swag.Name
	}
	if swag.GetSwagger(name) != nil {
		return fmt.Errorf("swag instance %q is already registered", name)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	swag.Register(name, registeredDoc{body: string(body)})
	return nil
}
