package minecraft

import (
	"encoding/json"
	"strings"
)

// stringSlice is a slice of strings that can be unmarshalled from a string or a []string
type stringSlice []string

func (w stringSlice) String() string {
	return strings.Join(w, " ")
}

// UnmarshalJSON is needed because argument values sometimes are a string
func (w *stringSlice) UnmarshalJSON(data []byte) error {
	if len(data) != 0 && data[0] == '[' {
		var arg []string
		if err := json.Unmarshal(data, &arg); err != nil {
			return err
		}
		*w = arg
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*w = []string{s}
	return nil
}

// MarshalJSON writes a single value as string
func (w stringSlice) MarshalJSON() ([]byte, error) {
	if len(w) == 1 {
		return json.Marshal(w[0])
	}
	return json.Marshal([]string(w))
}
