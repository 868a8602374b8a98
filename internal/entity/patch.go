package entity

// Patch es una actualización parcial: columna -> nuevo valor. Sólo las claves presentes
// se escriben; el repositorio valida las columnas contra su lista blanca.
type Patch map[string]any

// Set agrega la columna cuando el puntero no es nil.
func Set[T any](p Patch, column string, v *T) {
	if v != nil {
		p[column] = *v
	}
}

func (p Patch) Empty() bool {
	return len(p) == 0
}
