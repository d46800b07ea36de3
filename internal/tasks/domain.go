package tasks

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/appboilerplate/taskmanager/internal/shared"
)

// MaxLimit caps the page size of a task listing.
const MaxLimit = 100

// Task is a unit of work owned by one account.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateInput captures the fields accepted when creating a task.
type CreateInput struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

var allowedUpdates = map[string]struct{}{
	"description": {},
	"completed":   {},
}

// Patch holds the decoded subset of fields present in an update.
type Patch struct {
	Description *string
	Completed   *bool
}

// ParsePatch checks raw keys against the allow-list before decoding any value.
func ParsePatch(raw map[string]json.RawMessage) (Patch, error) {
	var forbidden []string
	for key := range raw {
		if _, ok := allowedUpdates[key]; !ok {
			forbidden = append(forbidden, key)
		}
	}
	if len(forbidden) > 0 {
		sort.Strings(forbidden)
		return Patch{}, fmt.Errorf("%w: %s", shared.ErrForbiddenKeys, strings.Join(forbidden, ", "))
	}

	var patch Patch
	if v, ok := raw["description"]; ok {
		patch.Description = new(string)
		if err := json.Unmarshal(v, patch.Description); err != nil {
			return Patch{}, fmt.Errorf("%w: description: %v", shared.ErrValidation, err)
		}
	}
	if v, ok := raw["completed"]; ok {
		patch.Completed = new(bool)
		if err := json.Unmarshal(v, patch.Completed); err != nil {
			return Patch{}, fmt.Errorf("%w: completed: %v", shared.ErrValidation, err)
		}
	}
	return patch, nil
}

// SortField names a sortable task attribute.
type SortField string

const (
	SortCreatedAt   SortField = "created_at"
	SortUpdatedAt   SortField = "updated_at"
	SortDescription SortField = "description"
	SortCompleted   SortField = "completed"
)

var sortFields = map[string]SortField{
	"created_at":  SortCreatedAt,
	"createdAt":   SortCreatedAt,
	"updated_at":  SortUpdatedAt,
	"updatedAt":   SortUpdatedAt,
	"description": SortDescription,
	"completed":   SortCompleted,
}

// ListQuery filters, sorts and pages a task listing. Service.List and
// ParseListQuery treat a zero Limit as MaxLimit; repositories apply no limit
// when it is zero.
type ListQuery struct {
	Completed *bool
	SortBy    SortField
	Desc      bool
	Limit     int
	Skip      int
}

// ParseListQuery reads ?completed=&sortBy=field:asc|desc&limit=&skip=.
func ParseListQuery(values url.Values) (ListQuery, error) {
	q := ListQuery{SortBy: SortCreatedAt}

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return ListQuery{}, fmt.Errorf("%w: completed: %q", shared.ErrValidation, raw)
		}
		q.Completed = &completed
	}

	if raw := values.Get("sortBy"); raw != "" {
		name, dir, _ := strings.Cut(raw, ":")
		field, ok := sortFields[name]
		if !ok {
			return ListQuery{}, fmt.Errorf("%w: sortBy field %q", shared.ErrValidation, name)
		}
		q.SortBy = field
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			q.Desc = true
		default:
			return ListQuery{}, fmt.Errorf("%w: sortBy direction %q", shared.ErrValidation, dir)
		}
	}

	var err error
	if q.Limit, err = nonNegative(values, "limit"); err != nil {
		return ListQuery{}, err
	}
	if q.Skip, err = nonNegative(values, "skip"); err != nil {
		return ListQuery{}, err
	}
	if q.Limit == 0 || q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q, nil
}

func nonNegative(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s: %q", shared.ErrValidation, key, raw)
	}
	return n, nil
}
