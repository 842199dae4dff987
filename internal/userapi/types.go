package userapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// User mirrors a profile record returned by /users.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Company  Company `json:"company"`

	// Extra keeps fields the API returned that User does not model. They are
	// written back unchanged when the record is marshaled.
	Extra map[string]json.RawMessage `json:"-"`
}

// Address is the nested postal address of a user.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
	Geo     Geo    `json:"geo"`
}

// Geo holds coordinates as the API sends them (strings).
type Geo struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// Company describes where a user works.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if username := strings.TrimSpace(u.Username); username != "" {
		return username
	}
	return fmt.Sprintf("User #%d", u.ID)
}

// Line renders the address on one line, skipping empty parts.
func (a Address) Line() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Suite, a.City, a.Zipcode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var knownUserFields = map[string]struct{}{
	"id":       {},
	"name":     {},
	"username": {},
	"email":    {},
	"address":  {},
	"phone":    {},
	"website":  {},
	"company":  {},
}

// UnmarshalJSON accepts the id as a number or a numeric string and keeps
// unmodeled fields in Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		ID flexibleID `json:"id"`
		*plain
	}{plain: (*plain)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.ID = int64(aux.ID)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	u.Extra = nil
	for name, raw := range fields {
		if _, ok := knownUserFields[name]; ok {
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[name] = raw
	}
	return nil
}

// MarshalJSON writes the modeled fields plus anything held in Extra.
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	base, err := json.Marshal(plain(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for name, raw := range u.Extra {
		if _, ok := merged[name]; ok {
			continue
		}
		merged[name] = raw
	}
	return json.Marshal(merged)
}

// flexibleID decodes ids sent either as JSON numbers or numeric strings.
type flexibleID int64

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = 0
		return nil
	}
	text := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
		if text == "" {
			*f = 0
			return nil
		}
	}
	id, err := ParseID(text)
	if err != nil {
		return err
	}
	*f = flexibleID(id)
	return nil
}

// ParseID converts a textual id into the canonical int64 form. Integral
// floats such as "3.0" are accepted.
func ParseID(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, nil
	}
	fl, err := strconv.ParseFloat(text, 64)
	if err != nil || fl != math.Trunc(fl) || math.IsInf(fl, 0) {
		return 0, fmt.Errorf("invalid user id %q", text)
	}
	return int64(fl), nil
}
