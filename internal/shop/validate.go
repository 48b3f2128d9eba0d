package shop

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/revittco/storefront/internal/store"
)

// MaxPasswordBytes is the longest password, in bytes, that can be hashed.
const MaxPasswordBytes = 72

var looseEmail = regexp.MustCompile(`\S+@\S+\.\S+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return looseEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	// bcrypt rejects passwords longer than MaxPasswordBytes.
	if err := v.RegisterValidation("bcrypt_len", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

// registerMessages maps a failed field/rule pair to the message shown to the
// user.
var registerMessages = map[string]string{
	"Name.required":       "Name is required",
	"Email.required":      "Email is required",
	"Email.loose_email":   "Invalid email address",
	"Password.required":   "Password is required",
	"Password.min":        "Password must be at least 6 characters",
	"Password.bcrypt_len": "Password must be at most 72 bytes",
	"Terms.eq":            "You must agree to the terms and conditions",
}

// Validate checks the form. Name and email are trimmed for the checks only;
// the form is left as entered. Rules are checked in form order and only the
// first failure is reported, as a *ValidationError.
func (f *RegisterForm) Validate() error {
	chk := *f
	chk.Name = strings.TrimSpace(chk.Name)
	chk.Email = strings.TrimSpace(chk.Email)

	err := validate.Struct(&chk)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := registerMessages[fe.StructField()+"."+fe.Tag()]
	if !ok {
		msg = fe.Error()
	}
	return &ValidationError{Field: strings.ToLower(fe.StructField()), Message: msg}
}

// ParseOrderState validates a user-supplied order state.
func ParseOrderState(s string) (store.OrderState, error) {
	st := store.OrderState(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", &ValidationError{Field: "state", Message: "unknown order state " + s}
	}
	return st, nil
}
