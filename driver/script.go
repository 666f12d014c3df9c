package driver

import (
	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DecodeResult decodes the JSON encoded script result data into result
func DecodeResult(data []byte, result interface{}) error {
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return trace.BadParameter("failed to decode script result %s: %v", truncate(data), err)
	}
	return nil
}

// ConvertResult converts a script result decoded into generic values
// (maps, slices, numbers) into result
func ConvertResult(value interface{}, result interface{}) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return trace.Wrap(err)
	}
	return DecodeResult(data, result)
}

// EncodeArgs returns script arguments as a JSON array
func EncodeArgs(args []interface{}) (string, error) {
	if len(args) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", trace.BadParameter("script arguments are not serializable: %v", err)
	}
	return string(data), nil
}

func truncate(data []byte) []byte {
	const max = 64
	if len(data) > max {
		return append(data[:max:max], "..."...)
	}
	return data
}
