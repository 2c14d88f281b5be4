package database

import "quill/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Thread{},
		&models.ThreadView{},
		&models.Follow{},
		&models.Vote{},
	}
}
