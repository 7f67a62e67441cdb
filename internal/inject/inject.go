// Package inject implements the Dependency Injector (spec §4.C3): populating
// a freshly-constructed component instance's declared fields from the
// execution context and the effective configuration, before it is invoked.
//
// No example in the retrieval pack shows a struct-tag field walker for this
// kind of short-lived, per-invocation component (the closest analogues —
// viper/mapstructure-style decoding — bind external config into long-lived
// service structs, not per-call transient instances constructed by a
// registry). The spec itself calls this out as inherently reflective (§9),
// so this package is built directly on the standard library's reflect
// package; see DESIGN.md for the third-party-library search this entailed.
package inject

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/flowforge/flowforge/internal/config"
	"github.com/flowforge/flowforge/internal/execctx"
	flowerrors "github.com/flowforge/flowforge/pkg/errors"
)

const (
	tagContext = "ctx"
	tagConfig  = "config"
)

// configTag is the parsed form of a `config:"..."` struct tag.
type configTag struct {
	key      string
	path     string
	def      string
	hasDef   bool
	required bool
}

// Into injects ctx and the effective config tree into instance's exported
// fields, applying the three precedence mechanisms of spec §4.C3: explicit
// context binding, explicit config binding (falling back to a dotted path
// in settings, then a declared default literal), and name-match fallback
// for unmarked fields. instance must be a non-nil pointer to a struct.
func Into(instance any, ctx *execctx.Context, cfg config.Tree, settings config.Tree) error {
	v := reflect.ValueOf(instance)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("inject: target must be a non-nil pointer to a struct, got %T", instance)
	}
	elem := v.Elem()
	t := elem.Type()
	componentName := t.Name()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := elem.Field(i)

		if ctxKey, ok := field.Tag.Lookup(tagContext); ok {
			if err := bindContext(componentName, field.Name, fv, ctx, ctxKey); err != nil {
				return err
			}
			continue
		}

		if rawTag, ok := field.Tag.Lookup(tagConfig); ok {
			tag := parseConfigTag(field.Name, rawTag)
			if err := bindConfig(componentName, field.Name, fv, cfg, settings, tag); err != nil {
				return err
			}
			continue
		}

		bindByName(fv, field.Name, ctx, cfg)
	}
	return nil
}

func bindContext(componentName, fieldName string, fv reflect.Value, ctx *execctx.Context, key string) error {
	if ctx == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = fieldName
	}
	val, ok := ctx.Get(key)
	if !ok {
		return nil
	}
	return assign(componentName, fieldName, fv, val)
}

func bindConfig(componentName, fieldName string, fv reflect.Value, cfg, settings config.Tree, tag configTag) error {
	if val, ok := cfg[tag.key]; ok {
		return assign(componentName, fieldName, fv, val)
	}
	if tag.path != "" {
		if val, ok := settings.Path(tag.path); ok {
			return assign(componentName, fieldName, fv, val)
		}
	}
	if tag.hasDef {
		return assign(componentName, fieldName, fv, tag.def)
	}
	if tag.required {
		return flowerrors.NewInjectionError(componentName, fieldName, "no value found for required config binding", nil)
	}
	return nil
}

func bindByName(fv reflect.Value, fieldName string, ctx *execctx.Context, cfg config.Tree) {
	if ctx != nil {
		if val, ok := ctx.Get(fieldName); ok {
			_ = assign("", fieldName, fv, val)
			return
		}
	}
	if val, ok := cfg[fieldName]; ok {
		_ = assign("", fieldName, fv, val)
	}
}

func parseConfigTag(fieldName, raw string) configTag {
	tag := configTag{key: fieldName}
	parts := strings.Split(raw, ",")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) != "" {
		tag.key = strings.TrimSpace(parts[0])
	}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		switch {
		case opt == "required":
			tag.required = true
		case strings.HasPrefix(opt, "path="):
			tag.path = strings.TrimPrefix(opt, "path=")
		case strings.HasPrefix(opt, "default="):
			tag.def = strings.TrimPrefix(opt, "default=")
			tag.hasDef = true
		}
	}
	return tag
}

// assign coerces val to fv's type and sets it, per spec §4.C3's coercion
// rules (string <-> numeric-parse, numeric widening, boolean-from-string).
// componentName is only used to name the owning component in the resulting
// error; an empty componentName marks a name-match binding, which fails
// open instead of raising (an unmarked field is best-effort).
func assign(componentName, fieldName string, fv reflect.Value, val any) error {
	if !fv.CanSet() {
		return nil
	}
	if val == nil {
		return nil
	}

	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}

	coerced, err := coerce(rv, fv.Type())
	if err != nil {
		if componentName == "" {
			return nil
		}
		return flowerrors.NewInjectionError(componentName, fieldName, err.Error(), err)
	}
	fv.Set(coerced)
	return nil
}

func coerce(rv reflect.Value, target reflect.Type) (reflect.Value, error) {
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(fmt.Sprintf("%v", rv.Interface())).Convert(target), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Convert(target), nil
		case reflect.Float32, reflect.Float64:
			return reflect.ValueOf(int64(rv.Float())).Convert(target), nil
		case reflect.String:
			parsed, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("cannot coerce %q to integer: %w", rv.String(), err)
			}
			return reflect.ValueOf(parsed).Convert(target), nil
		}

	case reflect.Float32, reflect.Float64:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Convert(target), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return reflect.ValueOf(float64(rv.Int())).Convert(target), nil
		case reflect.String:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("cannot coerce %q to float: %w", rv.String(), err)
			}
			return reflect.ValueOf(parsed).Convert(target), nil
		}

	case reflect.Bool:
		switch rv.Kind() {
		case reflect.Bool:
			return rv.Convert(target), nil
		case reflect.String:
			parsed, err := strconv.ParseBool(strings.TrimSpace(rv.String()))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("cannot coerce %q to bool: %w", rv.String(), err)
			}
			return reflect.ValueOf(parsed), nil
		}
	}

	return reflect.Value{}, fmt.Errorf("cannot coerce %s to %s", rv.Type(), target)
}
