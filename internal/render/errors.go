package render

import (
	"errors"
	"fmt"

	"github.com/dgallion1/reportgen/internal/style"
)

// TableShapeError means a table cannot form a grid: it has no columns,
// or its columns hold value lists of unequal length. The table is
// skipped; rendering continues.
type TableShapeError struct {
	Table   string
	Lengths map[string]int
}

func (e *TableShapeError) Error() string {
	if len(e.Lengths) == 0 {
		return fmt.Sprintf("table %q: no columns", e.Table)
	}
	return fmt.Sprintf("table %q: inconsistent column lengths %v", e.Table, e.Lengths)
}

// ResourceError means an image could not be loaded or decoded. The
// picture and its caption are skipped; rendering continues.
type ResourceError struct {
	URL string
	Err error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("image %q: %v", e.URL, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// SchemaError means the report tree is inconsistent, e.g. a content item
// references a picture or table the section does not define. It aborts
// the render.
type SchemaError struct {
	Section string
	Key     string
	Reason  string
}

func (e *SchemaError) Error() string {
	msg := "schema: "
	if e.Section != "" {
		msg += fmt.Sprintf("section %q: ", e.Section)
	}
	if e.Key == "" {
		return msg + e.Reason
	}
	return msg + fmt.Sprintf("%s %q", e.Reason, e.Key)
}

// IsRecoverable reports whether err only affects a single content item.
func IsRecoverable(err error) bool {
	var shape *TableShapeError
	var res *ResourceError
	return errors.As(err, &shape) || errors.As(err, &res)
}

// IsFatal reports whether err must abort the whole render.
func IsFatal(err error) bool {
	var schema *SchemaError
	var st *style.Error
	return errors.As(err, &schema) || errors.As(err, &st)
}
