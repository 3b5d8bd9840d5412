package constraint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/intavia/visualquery/internal/domain/geo"
)

// ISOLayout matches the instant format of JavaScript's Date.toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z"

var null = []byte("null")

// FormatInstant formats t in UTC with millisecond precision. Years outside
// 0000-9999 use the signed six-digit form, e.g. -000100-01-01T00:00:00.000Z.
func FormatInstant(t time.Time) string {
	t = t.UTC()
	y := t.Year()
	if y >= 0 && y <= 9999 {
		return t.Format(ISOLayout)
	}
	sign := '+'
	if y < 0 {
		sign, y = '-', -y
	}
	return fmt.Sprintf("%c%06d", sign, y) + t.Format(ISOLayout[len("2006"):])
}

// ParseInstant accepts RFC 3339 timestamps, signed six-digit years and plain
// YYYY-MM-DD dates (UTC midnight).
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, ok := parseExtendedYear(s); ok {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// parseExtendedYear parses ±YYYYYY-MM-DDTHH:MM:SS[.fff](Z|±hh:mm).
func parseExtendedYear(s string) (time.Time, bool) {
	if len(s) < 8 || (s[0] != '+' && s[0] != '-') || s[7] != '-' {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(s[1:7])
	if err != nil {
		return time.Time{}, false
	}
	if s[0] == '-' {
		y = -y
	}
	// 2000 is a leap year, so Feb 29 parses; the day check below rejects it
	// for other years.
	t, err := time.Parse(time.RFC3339Nano, "2000"+s[7:])
	if err != nil {
		return time.Time{}, false
	}
	out := time.Date(y, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if out.Day() != t.Day() {
		return time.Time{}, false
	}
	return out.UTC(), true
}

// EncodeValue encodes a value to its JSON wire form; empty values encode as null.
func EncodeValue(v Value) (json.RawMessage, error) {
	if v == nil {
		return null, nil
	}
	switch val := v.(type) {
	case Text:
		s, ok := val.Get()
		if !ok {
			return null, nil
		}
		return marshal(s)
	case DateRange:
		start, end, ok := val.Bounds()
		if !ok {
			return null, nil
		}
		return marshal([2]string{FormatInstant(start), FormatInstant(end)})
	case Place:
		if val.IsEmpty() {
			return null, nil
		}
		data, err := geo.EncodePolygon(val.Polygon())
		if err != nil {
			return nil, err
		}
		return data, nil
	case Vocabulary:
		return marshal(val.IDs())
	case EntityKinds:
		if !val.set {
			return null, nil
		}
		return marshal(val.Kinds())
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// DecodeValue decodes the JSON wire form for kind. null decodes to the empty value.
func DecodeValue(k Kind, raw json.RawMessage) (Value, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("unknown kind %q", k)
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), null) {
		return DefaultValue(k), nil
	}

	switch k {
	case KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("text value must be a string: %w", err)
		}
		return NewText(s), nil
	case KindDateRange:
		var pair []string
		if err := json.Unmarshal(raw, &pair); err != nil {
			return nil, fmt.Errorf("date range must be [start, end]: %w", err)
		}
		if len(pair) != 2 {
			return nil, fmt.Errorf("date range must have exactly 2 bounds, got %d", len(pair))
		}
		start, err := ParseInstant(pair[0])
		if err != nil {
			return nil, err
		}
		end, err := ParseInstant(pair[1])
		if err != nil {
			return nil, err
		}
		return NewDateRange(start, end), nil
	case KindPlace:
		p, err := geo.ParsePolygon(raw)
		if err != nil {
			return nil, err
		}
		return NewPlace(p)
	case KindVocabulary:
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, fmt.Errorf("vocabulary value must be an array of ids: %w", err)
		}
		return NewVocabulary(ids...), nil
	case KindEntityKind:
		var kinds []EntityKind
		if err := json.Unmarshal(raw, &kinds); err != nil {
			return nil, fmt.Errorf("entity kinds must be an array of strings: %w", err)
		}
		return NewEntityKinds(kinds...)
	default:
		return nil, fmt.Errorf("unknown kind %q", k)
	}
}

func marshal(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}
