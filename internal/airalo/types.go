package airalo

import (
	"bytes"
	"encoding/json"
	"time"
)

// Credentials are the partner API client credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Complete reports whether both halves of the credential pair are set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// AccessToken is a bearer token with the instant it stops being served.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenGrant is a freshly issued token and its lifetime as reported by the API.
type TokenGrant struct {
	Value string
	TTL   time.Duration
}

// Device is a single entry from the compatible-devices catalog. Name, brand
// and model are normalised to strings (null becomes "", numbers their
// literal text). Every other field is kept verbatim in Extra so it survives
// re-encoding into the widget payload.
type Device struct {
	Name  string
	Brand string
	Model string
	Extra map[string]json.RawMessage
}

var knownDeviceFields = []string{"name", "brand", "model"}

// UnmarshalJSON decodes a device object, keeping unknown fields.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		// null entry
		return nil
	}

	d.Name = textField(raw["name"])
	d.Brand = textField(raw["brand"])
	d.Model = textField(raw["model"])

	for _, k := range knownDeviceFields {
		delete(raw, k)
	}
	d.Extra = nil
	if len(raw) > 0 {
		d.Extra = raw
	}
	return nil
}

// MarshalJSON encodes the device with its passthrough fields. Name, brand
// and model are always written as strings.
func (d Device) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+len(knownDeviceFields))
	for k, v := range d.Extra {
		out[k] = v
	}
	out["name"] = d.Name
	out["brand"] = d.Brand
	out["model"] = d.Model
	return json.Marshal(out)
}

// textField reads a string field, tolerating null and non-string scalars
// (some catalog entries carry numeric model codes).
func textField(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
