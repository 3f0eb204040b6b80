// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// FlagsFromParams returns a flag set bound to the tagged fields of
// params, which must point to a struct. It panics on a malformed params
// type, which is a programming error.
//
//	var params shareParams
//	command := &cli.Command{
//	    Flags: func() *pflag.FlagSet {
//	        return cli.FlagsFromParams("share", &params)
//	    },
//	    Run: func(args []string) error {
//	        // params is populated here
//	    },
//	}
func FlagsFromParams(name string, params any) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if err := BindFlags(params, flagSet); err != nil {
		panic(fmt.Sprintf("cli.FlagsFromParams(%q): %v", name, err))
	}
	return flagSet
}

// BindFlags registers one flag per tagged field of params, which must
// point to a struct.
//
// Tags:
//
//   - flag:"name" or flag:"name,n" gives the long name and an optional
//     one-letter shorthand. Untagged fields are skipped.
//   - desc:"..." is the help text.
//   - default:"..." is parsed as the field's type; empty means zero.
//
// Field types: string, bool, int, float64, [time.Duration], []string
// (comma-separated default). Embedded structs are bound recursively,
// which is how [JSONOutput] contributes --json. Embedded types must be
// exported for their fields to be settable.
func BindFlags(params any, flagSet *pflag.FlagSet) error {
	value := reflect.ValueOf(params)
	if value.Kind() != reflect.Pointer || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("params must be a pointer to a struct, got %T", params)
	}
	return bindStruct(value.Elem(), flagSet)
}

func bindStruct(structValue reflect.Value, flagSet *pflag.FlagSet) error {
	structType := structValue.Type()
	for index := range structType.NumField() {
		field := structType.Field(index)
		fieldValue := structValue.Field(index)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if err := bindStruct(fieldValue, flagSet); err != nil {
				return fmt.Errorf("embedded %s: %w", field.Name, err)
			}
			continue
		}

		tag, ok := field.Tag.Lookup("flag")
		if !ok || tag == "" {
			continue
		}
		if !fieldValue.CanAddr() || !fieldValue.CanInterface() {
			return fmt.Errorf("field %s: not settable", field.Name)
		}
		name, shorthand, _ := strings.Cut(tag, ",")
		spec := flagSpec{
			name:      name,
			shorthand: shorthand,
			usage:     field.Tag.Get("desc"),
			fallback:  field.Tag.Get("default"),
		}
		if err := spec.bind(fieldValue.Addr().Interface(), flagSet); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// flagSpec is the parsed tag set of one field.
type flagSpec struct {
	name      string
	shorthand string
	usage     string
	fallback  string
}

func (s flagSpec) bind(target any, flagSet *pflag.FlagSet) error {
	switch target := target.(type) {
	case *string:
		flagSet.StringVarP(target, s.name, s.shorthand, s.fallback, s.usage)
		return nil
	case *bool:
		return bindParsed(s, target, strconv.ParseBool, flagSet.BoolVarP)
	case *int:
		return bindParsed(s, target, strconv.Atoi, flagSet.IntVarP)
	case *float64:
		parseFloat := func(text string) (float64, error) { return strconv.ParseFloat(text, 64) }
		return bindParsed(s, target, parseFloat, flagSet.Float64VarP)
	case *time.Duration:
		return bindParsed(s, target, time.ParseDuration, flagSet.DurationVarP)
	case *[]string:
		var fallback []string
		if s.fallback != "" {
			fallback = strings.Split(s.fallback, ",")
		}
		flagSet.StringSliceVarP(target, s.name, s.shorthand, fallback, s.usage)
		return nil
	default:
		return fmt.Errorf("unsupported type %T for flag --%s", target, s.name)
	}
}

// bindParsed parses the default with parse and registers the flag.
func bindParsed[T any](s flagSpec, target *T, parse func(string) (T, error), register func(*T, string, string, T, string)) error {
	var fallback T
	if s.fallback != "" {
		parsed, err := parse(s.fallback)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", s.name, err)
		}
		fallback = parsed
	}
	register(target, s.name, s.shorthand, fallback, s.usage)
	return nil
}
