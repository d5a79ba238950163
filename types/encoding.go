package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// HexBytes is a []byte which encodes as hexadecimal in JSON. An
// optional "0x" prefix is accepted when decoding.
type HexBytes []byte

func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalJSON() ([]byte, error) {
	enc := make([]byte, hex.EncodedLen(len(b))+2)
	enc[0] = '"'
	hex.Encode(enc[1:], b)
	enc[len(enc)-1] = '"'
	return enc, nil
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid JSON string: %q", data)
	}
	data = data[1 : len(data)-1]
	if len(data) >= 2 && data[0] == '0' && (data[1] == 'x' || data[1] == 'X') {
		data = data[2:]
	}
	decoded := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(decoded, data); err != nil {
		return err
	}
	*b = decoded
	return nil
}

// BallotValue is a template-specific ballot payload carried as raw
// JSON. Keeping the submitted bytes verbatim lets canonicalization and
// verification always start from the same input.
type BallotValue []byte

// NewBallotValue marshals v into a BallotValue. It panics on marshal
// failure, so it is meant for values known to be JSON-encodable.
func NewBallotValue(v any) BallotValue {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return BallotValue(data)
}

// IsEmpty reports whether the value is absent ("", "null" or "{}").
func (v BallotValue) IsEmpty() bool {
	trimmed := bytes.TrimSpace([]byte(v))
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

func (v BallotValue) String() string {
	return string(v)
}

func (v BallotValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *BallotValue) UnmarshalJSON(data []byte) error {
	*v = append((*v)[0:0], data...)
	return nil
}

// Decode unmarshals the value into out.
func (v BallotValue) Decode(out any) error {
	if len(v) == 0 {
		return fmt.Errorf("empty ballot value")
	}
	return json.Unmarshal(v, out)
}

// AsBool projects the value to a JSON boolean.
func (v BallotValue) AsBool() (bool, error) {
	var b bool
	if err := v.Decode(&b); err != nil {
		return false, fmt.Errorf("expected a boolean: %w", err)
	}
	return b, nil
}

// AsString projects the value to a JSON string.
func (v BallotValue) AsString() (string, error) {
	var s string
	if err := v.Decode(&s); err != nil {
		return "", fmt.Errorf("expected a string: %w", err)
	}
	return s, nil
}

// AsNumber projects the value to a JSON number.
func (v BallotValue) AsNumber() (float64, error) {
	var f float64
	if err := v.Decode(&f); err != nil {
		return 0, fmt.Errorf("expected a number: %w", err)
	}
	return f, nil
}

// AsStringSlice projects the value to a JSON array of strings.
func (v BallotValue) AsStringSlice() ([]string, error) {
	var s []string
	if err := v.Decode(&s); err != nil {
		return nil, fmt.Errorf("expected an array of strings: %w", err)
	}
	return s, nil
}

// Duration wraps time.Duration so that JSON carries the Go duration
// string form ("1h30m") instead of nanosecond integers.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
