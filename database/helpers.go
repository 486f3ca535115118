package database

import "github.com/google/uuid"

// isUUID guards uuid columns against arbitrary path parameters, which
// postgres would otherwise reject with a cast error instead of "not found".
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
