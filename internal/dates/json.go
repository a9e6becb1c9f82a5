package dates

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONDay is a day that encodes to and from JSON as a Layout string.
// Convert a *time.Time with (*JSONDay)(t) to encode an optional day as null.
type JSONDay time.Time

func (d JSONDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(Format(time.Time(d)))
}

func (d *JSONDay) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("day must be a string: %w", err)
	}
	day, err := Parse(s)
	if err != nil {
		return err
	}
	*d = JSONDay(day)
	return nil
}
