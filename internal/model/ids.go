package model

import "github.com/google/uuid"

// ensureID assigns a random v4 id when the caller left it empty. Ids are generated
// in Go rather than by the database so the same models work on Postgres and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
