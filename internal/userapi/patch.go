package userapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// ErrInvalidPatch is wrapped by every validation failure returned from Patch.Validate.
var ErrInvalidPatch = errors.New("invalid profile")

// Patch is the body of an update. Nil fields are left out of the request, so
// a patch may carry a single field or the whole record.
type Patch struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Username *string  `json:"username,omitempty" validate:"omitempty,notblank,max=60"`
	Email    *string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone    *string  `json:"phone,omitempty" validate:"omitempty,max=40"`
	Website  *string  `json:"website,omitempty" validate:"omitempty,max=200"`
	Address  *Address `json:"address,omitempty"`
	Company  *Company `json:"company,omitempty"`
}

// PatchFrom builds a full patch carrying every field of u.
func PatchFrom(u User) Patch {
	address := u.Address
	company := u.Company
	return Patch{
		Name:     stringPtr(u.Name),
		Username: stringPtr(u.Username),
		Email:    stringPtr(u.Email),
		Phone:    stringPtr(u.Phone),
		Website:  stringPtr(u.Website),
		Address:  &address,
		Company:  &company,
	}
}

// IsEmpty reports whether the patch would send no fields.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Username == nil && p.Email == nil && p.Phone == nil &&
		p.Website == nil && p.Address == nil && p.Company == nil
}

// Apply returns u with the patch's fields written over it.
func (p Patch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Company != nil {
		u.Company = *p.Company
	}
	return u
}

// Validate checks field formats. The returned error names the offending
// fields by their JSON names and wraps ErrInvalidPatch.
func (p Patch) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return fmt.Errorf("%w: check %s", ErrInvalidPatch, strings.Join(fields, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	})
	return v
}

func stringPtr(s string) *string {
	return &s
}
