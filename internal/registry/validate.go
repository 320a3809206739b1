package registry

import (
	"context"
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/specialistvlad/oconfig/internal/ctxlog"
	"github.com/specialistvlad/oconfig/internal/decode"
)

var (
	unmarshalerType     = reflect.TypeFor[decode.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// ValidateRegistry checks every registered plugin for complete wiring and
// walks its config record for field types the decoder cannot fill.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		plugin := r.plugins[name]
		if plugin.NewConfig == nil {
			errs = append(errs, fmt.Sprintf("plugin '%s': NewConfig is not set", name))
			continue
		}
		if plugin.Configure == nil {
			errs = append(errs, fmt.Sprintf("plugin '%s': Configure is not set", name))
		}

		cfg := plugin.NewConfig()
		t := reflect.TypeOf(cfg)
		if t == nil || t.Kind() != reflect.Pointer {
			errs = append(errs, fmt.Sprintf("plugin '%s': NewConfig must return a pointer, got %T", name, cfg))
			continue
		}
		for _, problem := range checkDecodable(t.Elem(), t.Elem().Name(), map[reflect.Type]bool{}) {
			errs = append(errs, fmt.Sprintf("plugin '%s': %s", name, problem))
		}
		logger.Debug("Validated plugin config record.", "plugin", name, "type", t.Elem().String())
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// checkDecodable mirrors the kinds the reflection decoder accepts.
func checkDecodable(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	ptr := reflect.PointerTo(t)
	if ptr.Implements(unmarshalerType) || ptr.Implements(textUnmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Pointer:
		return checkDecodable(t.Elem(), path, seen)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return []string{fmt.Sprintf("field '%s': byte slices are not supported", path)}
		}
		elem := t.Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Slice {
			return []string{fmt.Sprintf("field '%s': nested sequences are not supported", path)}
		}
		return checkDecodable(t.Elem(), path+"[]", seen)
	case reflect.Struct:
		if seen[t] {
			return nil
		}
		seen[t] = true
		var problems []string
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Tag.Get("oconfig") == "-" {
				continue
			}
			key := strings.Split(f.Tag.Get("oconfig"), ",")[0]
			if key == "" {
				key = f.Name
			}
			problems = append(problems, checkDecodable(f.Type, path+"."+key, seen)...)
		}
		return problems
	}
	return []string{fmt.Sprintf("field '%s': %s is not supported", path, t.Kind())}
}
