package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var errNotObject = errors.New("JSON value is not an object")

// unmarshalUseNumber decodes exactly one JSON value into v.
func unmarshalUseNumber(data []byte, v *Recipe) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	if *v == nil {
		return errNotObject
	}
	return nil
}
