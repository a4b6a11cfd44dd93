package backend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// flexID acepta ids numéricos o string.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido: %s", string(b))
	}
	*f = flexID(n.String())
	return nil
}

// flexTime acepta RFC3339 y el formato "2006-01-02 15:04:05" del backend.
type flexTime time.Time

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: %s", string(b))
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = flexTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = flexTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("fecha inválida: %q", s)
}

// Time devuelve el valor como time.Time.
func (t flexTime) Time() time.Time { return time.Time(t) }

// Ptr devuelve nil si el receptor es nil o la fecha es cero.
func (t *flexTime) Ptr() *time.Time {
	if t == nil || time.Time(*t).IsZero() {
		return nil
	}
	v := time.Time(*t)
	return &v
}
