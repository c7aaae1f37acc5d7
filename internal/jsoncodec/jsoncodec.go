// Package jsoncodec is the single JSON entry point of the exporter.
package jsoncodec

import (
	"encoding/json"
	"reflect"

	"github.com/bytedance/sonic"
)

var (
	defaultConfig = sonic.ConfigStd
	objectType    = reflect.TypeOf(map[string]RawMessage(nil))
)

// RawMessage is a raw encoded JSON value.
type RawMessage = json.RawMessage

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}

func UnmarshalString(data string, v any) error {
	return defaultConfig.UnmarshalFromString(data, v)
}

// DecodeObject decodes a single JSON object keeping its members undecoded.
// Key presence is preserved even for null members.
func DecodeObject(data []byte) (map[string]RawMessage, error) {
	var obj map[string]RawMessage
	if err := defaultConfig.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		// a bare `null` decodes into a nil map
		return nil, &json.UnmarshalTypeError{Value: "null", Type: objectType}
	}
	return obj, nil
}
