package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devicehub/devicehub/internal/model"
)

var (
	loginRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,32}$`)
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const (
	minPasswordLength = 8
	maxNameLength     = 100
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidateLogin checks login format: 3-32 chars of letters, digits, dot,
// underscore or hyphen.
func ValidateLogin(login string) error {
	if !loginRegex.MatchString(login) {
		return invalid("login must be 3-32 characters of letters, digits, '.', '_' or '-'")
	}
	return nil
}

// ValidateEmail checks that email looks like an address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return invalid("email %q is not valid", email)
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func validateName(field, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return invalid("%s is required", field)
	}
	if len(v) > maxNameLength {
		return invalid("%s must be at most %d characters", field, maxNameLength)
	}
	return nil
}

func validateUser(u model.User) error {
	if err := ValidateLogin(u.Login); err != nil {
		return err
	}
	if err := validateName("name", u.Name); err != nil {
		return err
	}
	if err := validateName("surname", u.Surname); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	for _, r := range u.Roles {
		if !r.IsValid() {
			return invalid("unknown role %q", r)
		}
	}
	return nil
}

func validateBrand(b model.Brand) error {
	return validateName("name", b.Name)
}

func validateDevice(d model.Device) error {
	if err := validateName("name", d.Name); err != nil {
		return err
	}
	if d.Price < 0 {
		return invalid("price must not be negative")
	}
	if d.Mass < 0 {
		return invalid("mass must not be negative")
	}
	if !d.Type.IsValid() {
		return invalid("unknown device type %q", d.Type)
	}
	return nil
}
