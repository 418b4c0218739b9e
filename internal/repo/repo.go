package repo

import (
	"gorm.io/gorm"

	"github.com/mstepanov/storefront/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// identityScope narrows a query to one cart identity. A cart row belongs to
// either a user or an anonymous session, never both.
func identityScope(id models.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.UserID != nil:
			return db.Where("user_id = ?", *id.UserID)
		case id.SessionToken != nil:
			return db.Where("session_token = ?", *id.SessionToken)
		default:
			return db.Where("1 = 0")
		}
	}
}
