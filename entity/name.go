package entity

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-entity/modelerr"
)

// Name is a computed full name backed by a forename and a surname field.
type Name struct {
	Forename string
	Surname  string
}

// NewName returns a Name writing to the "forename" and "surname" fields.
func NewName() *Name {
	return &Name{Forename: "forename", Surname: "surname"}
}

// SetOn splits value on whitespace. The first word goes to the forename
// field and the rest to the surname field.
func (n *Name) SetOn(e *Entity, value any) error {
	s, ok := value.(string)
	if !ok {
		return modelerr.Type("string", value)
	}
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil
	}
	if err := e.Set(n.Forename, parts[0]); err != nil {
		return err
	}
	if len(parts) > 1 {
		return e.Set(n.Surname, strings.Join(parts[1:], " "))
	}
	return nil
}

func (n *Name) GetFrom(e *Entity) any {
	return strings.TrimSpace(fmt.Sprintf("%s %s", stringOf(e.Get(n.Forename)), stringOf(e.Get(n.Surname))))
}

func stringOf(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
