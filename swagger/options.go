package swagger

import (
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

type Option func(*options)

type options struct {
	title          string
	version        string
	description    string
	termsOfService string
	contact        *openapi3.Contact
	license        *openapi3.License
	schemaNames    map[reflect.Type]string
	logger         *zap.Logger
}

func WithTitle(title string) Option {
	return func(o *options) {
		o.title = strings.TrimSpace(title)
	}
}

func WithVersion(version string) Option {
	return func(o *options) {
		o.version = strings.TrimSpace(version)
	}
}

func WithDescription(description string) Option {
	return func(o *options) {
		o.description = strings.TrimSpace(description)
	}
}

// WithTermsOfService sets info.termsOfService.
func WithTermsOfService(url string) Option {
	return func(o *options) {
		o.termsOfService = strings.TrimSpace(url)
	}
}

// WithContact sets info.contact.
func WithContact(name, url, email string) Option {
	return func(o *options) {
		o.contact = &openapi3.Contact{
			Name:  strings.TrimSpace(name),
			URL:   strings.TrimSpace(url),
			Email: strings.TrimSpace(email),
		}
	}
}

// WithLicense sets info.license.
func WithLicense(name, url string) Option {
	return func(o *options) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		o.license = &openapi3.License{
			Name: name,
			URL:  strings.TrimSpace(url),
		}
	}
}

// WithSchemaName overrides the component schema name of a model.
// model can be a value, pointer, or reflect.Type.
func WithSchemaName(model any, name string) Option {
	return func(o *options) {
		t := modelType(model)
		name = strings.TrimSpace(name)
		if t == nil || name == "" {
			return
		}
		if o.schemaNames == nil {
			o.schemaNames = make(map[reflect.Type]string)
		}
		o.schemaNames[t] = name
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func modelType(model any) reflect.Type {
	var t reflect.Type
	switch v := model.(type) {
	case nil:
		return nil
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(model)
	}
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
