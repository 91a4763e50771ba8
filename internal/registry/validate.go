package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/vk/datagridgo/internal/ctxlog"
	"github.com/vk/datagridgo/internal/generr"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValidateRegistry checks that every registered provider can be built from a
// design file: it has a constructor, and its options struct only holds
// fields the design loader knows how to decode.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		reg := r.providers[name]
		if reg.New == nil {
			errs = append(errs, fmt.Sprintf("provider '%s': no constructor registered", name))
			continue
		}
		if reg.NewOptions == nil {
			continue
		}

		opts := reg.NewOptions()
		optsType := reflect.TypeOf(opts)
		if optsType == nil || optsType.Kind() != reflect.Pointer || optsType.Elem().Kind() != reflect.Struct {
			errs = append(errs, fmt.Sprintf("provider '%s': options must be a pointer to a struct, got %v", name, optsType))
			continue
		}

		structType := optsType.Elem()
		for i := 0; i < structType.NumField(); i++ {
			field := structType.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("hcl")
			tagName := strings.Split(tag, ",")[0]
			if tagName == "" {
				errs = append(errs, fmt.Sprintf("provider '%s': options field '%s' has no hcl tag", name, field.Name))
				continue
			}

			// Infer type from the Go field
			if _, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface()); err != nil {
				errs = append(errs, fmt.Sprintf("provider '%s', option '%s': could not imply cty type from Go field type %s: %v",
					name, tagName, field.Type, err))
			}
		}
		logger.Debug("Provider options validated.", "provider", name, "fields", structType.NumField())
	}

	if len(errs) > 0 {
		return generr.Configurationf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
