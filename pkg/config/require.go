package config

import (
	"fmt"
	"log"
	"strings"
)

// Var is a named configuration value checked by Require.
type Var struct {
	Name  string
	Value string
}

// Require returns an error listing every empty variable.
func Require(vars ...Var) error {
	var missing []string
	for _, v := range vars {
		if strings.TrimSpace(v.Value) == "" {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	return nil
}

func MustNonEmpty(vars ...Var) {
	if err := Require(vars...); err != nil {
		log.Fatal(err)
	}
}
