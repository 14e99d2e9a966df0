package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// Chronological orders archived messages oldest first. Both sides of a turn
// share a timestamp, so the learner's message breaks the tie.
func Chronological(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("CASE role WHEN 'user' THEN 0 ELSE 1 END")
}
