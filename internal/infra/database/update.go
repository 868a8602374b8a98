package database

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var ErrEmptyPatch = errors.New("no hay campos para actualizar")

type cond struct {
	column string
	value  any
}

// buildUpdate traduce un entity.Patch a un UPDATE parametrizado. Las columnas se
// ordenan para que la consulta sea estable y se rechazan las que no estén en allowed.
func buildUpdate(table string, patch entity.Patch, allowed map[string]bool, where ...cond) (string, []any, error) {
	if patch.Empty() {
		return "", nil, ErrEmptyPatch
	}
	if len(where) == 0 {
		return "", nil, errors.New("update sin condición")
	}

	columns := make([]string, 0, len(patch))
	for c := range patch {
		if !allowed[c] {
			return "", nil, fmt.Errorf("columna no permitida: %s", c)
		}
		columns = append(columns, c)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(columns)+len(where))
	sets := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		args = append(args, patch[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	conds := make([]string, 0, len(where))
	for _, w := range where {
		args = append(args, w.value)
		conds = append(conds, fmt.Sprintf("%s = $%d", w.column, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		table, strings.Join(sets, ", "), strings.Join(conds, " AND "))
	return query, args, nil
}

func columns(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
