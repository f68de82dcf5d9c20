package domain

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// FlexibleTime accepts plain dates as well as full timestamps and is stored as a BSON date.
type FlexibleTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFlexibleTime reads s in UTC unless it carries its own offset.
func ParseFlexibleTime(s string) (FlexibleTime, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return FlexibleTime{Time: parsed.UTC()}, nil
		}
	}
	return FlexibleTime{}, fmt.Errorf("invalid date format: %q", s)
}

func (ft *FlexibleTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || strings.TrimSpace(s) == "" {
		ft.Time = time.Time{}
		return nil
	}
	parsed, err := ParseFlexibleTime(s)
	if err != nil {
		return err
	}
	*ft = parsed
	return nil
}

func (ft FlexibleTime) MarshalJSON() ([]byte, error) {
	if ft.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ft.Time.UTC().Format(time.RFC3339) + `"`), nil
}

func (ft FlexibleTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if ft.Time.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(ft.Time.UTC())
}

func (ft *FlexibleTime) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null:
		ft.Time = time.Time{}
		return nil
	case bsontype.DateTime:
		ft.Time = raw.Time().UTC()
		return nil
	case bsontype.String:
		// documents written by other clients may hold ISO strings
		parsed, err := ParseFlexibleTime(raw.StringValue())
		if err != nil {
			return err
		}
		*ft = parsed
		return nil
	default:
		return fmt.Errorf("cannot decode BSON %v into FlexibleTime", t)
	}
}
