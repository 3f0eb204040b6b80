// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"io"
	"os"
	"reflect"
)

// JSONOutput adds --json to a params struct by embedding.
//
//	type layoutsParams struct {
//	    cli.JSONOutput
//	    Stacked bool `flag:"stacked" desc:"list the stacked catalog"`
//	}
//
//	if done, err := params.EmitJSONTo(stdout, descriptors); done {
//	    return err
//	}
//	// text output follows
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON is EmitJSONTo on standard output.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	return j.EmitJSONTo(os.Stdout, result)
}

// EmitJSONTo writes result to w as indented JSON when --json is set
// and reports whether it did. A nil slice is written as [].
func (j *JSONOutput) EmitJSONTo(w io.Writer, result any) (done bool, err error) {
	if !j.OutputJSON {
		return false, nil
	}
	return true, WriteJSON(w, normalizeNilSlice(result))
}

// WriteJSON writes value to w as indented JSON.
func WriteJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}
