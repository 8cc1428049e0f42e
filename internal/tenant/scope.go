package tenant

import "gorm.io/gorm"

// Scope is the mandatory tenant filter applied to every query.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
