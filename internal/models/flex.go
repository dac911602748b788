package models

import (
	"bytes"
	"encoding/json"

	"github.com/spf13/cast"
)

// FlexString decodes spreadsheet cells that may arrive as strings, numbers,
// booleans or null. It always encodes as a JSON string.
type FlexString string

// String returns the raw value.
func (f FlexString) String() string {
	return string(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return err
	}
	*f = FlexString(s)
	return nil
}
