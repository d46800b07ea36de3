package users

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

// SignupInput captures the fields accepted when registering an account.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,max=72,nopassword"`
	Age      int    `json:"age" validate:"gte=0"`
}

// allowedUpdates lists the account fields a client may change through PATCH.
var allowedUpdates = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}

// ProfilePatch holds the decoded subset of fields present in an update.
type ProfilePatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Age == nil
}

// ParsePatch checks raw keys against the allow-list before decoding any value.
func ParsePatch(raw map[string]json.RawMessage) (ProfilePatch, error) {
	var forbidden []string
	for key := range raw {
		if _, ok := allowedUpdates[key]; !ok {
			forbidden = append(forbidden, key)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return ProfilePatch{}, fmt.Errorf("%w: %s", shared.ErrForbiddenKeys, strings.Join(forbidden, ", "))
	}

	var patch ProfilePatch
	for key, value := range raw {
		var target any
		switch key {
		case "name":
			patch.Name = new(string)
			target = patch.Name
		case "email":
			patch.Email = new(string)
			target = patch.Email
		case "password":
			patch.Password = new(string)
			target = patch.Password
		case "age":
			patch.Age = new(int)
			target = patch.Age
		}
		if err := json.Unmarshal(value, target); err != nil {
			return ProfilePatch{}, fmt.Errorf("%w: %s: %v", shared.ErrValidation, key, err)
		}
	}
	return patch, nil
}
