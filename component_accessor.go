package scene

// GetFromCursor returns the value for the cursor's current entity. It does not
// check that the entity has the component; use it for types the cursor's aspect
// includes.
func (c Component[T]) GetFromCursor(cursor *Cursor) *T {
	return c.storage.Get(cursor.current.Index)
}

// GetFromCursorSafe is GetFromCursor for types the aspect does not guarantee.
func (c Component[T]) GetFromCursorSafe(cursor *Cursor) (*T, bool) {
	p := c.storage.Get(cursor.current.Index)
	return p, p != nil
}

// CheckCursor reports whether the cursor's current entity has the component.
func (c Component[T]) CheckCursor(cursor *Cursor) bool {
	return c.storage.Has(cursor.current.Index)
}
