package data

import (
	"gorm.io/gorm"
)

// TrustedDomain is an operator-managed allow-list row. When the table holds
// active rows they replace the built-in list at start-up.
type TrustedDomain struct {
	ID     uint   `gorm:"primaryKey"`
	Domain string `gorm:"size:255;not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// LoadTrustedDomains returns the active domains ordered by id.
func LoadTrustedDomains(db *gorm.DB) ([]string, error) {
	var rows []TrustedDomain
	if err := db.Where("active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Domain)
	}
	return out, nil
}
