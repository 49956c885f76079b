package handlers

import (
	"math"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// formFloat reads a numeric form value. ok is false when the field is
// absent or blank.
func formFloat(e *core.RequestEvent, field string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(e.Request.FormValue(field))
	if raw == "" {
		return 0, false, nil
	}
	v, err = cast.ToFloat64E(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, true, fieldError(field, "must be a number")
	}
	return v, true, nil
}

// formBool reads a checkbox-style form value ("on", "true", "1", ...).
func formBool(e *core.RequestEvent, field string) (v bool, ok bool, err error) {
	raw := strings.ToLower(strings.TrimSpace(e.Request.FormValue(field)))
	switch raw {
	case "":
		return false, false, nil
	case "on", "yes":
		return true, true, nil
	case "off", "no":
		return false, true, nil
	}
	v, err = cast.ToBoolE(raw)
	if err != nil {
		return false, true, fieldError(field, "must be true or false")
	}
	return v, true, nil
}

// formInt reads a whole-number form value. ok is false when the field is
// absent or blank.
func formInt(e *core.RequestEvent, field string) (v int, ok bool, err error) {
	f, ok, err := formFloat(e, field)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) {
		return 0, true, fieldError(field, "must be a whole number")
	}
	return int(f), true, nil
}
