package models

import "time"

// Profile holds the optional background information of a user.
type Profile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Age             *int      `json:"age"`
	GraduationYear  *int      `json:"graduationYear"`
	Education       string    `gorm:"size:50" json:"education"`
	School          string    `gorm:"size:100" json:"school"`
	Major           string    `gorm:"size:100" json:"major"`
	MajorCategory   string    `gorm:"size:50" json:"majorCategory"`
	TargetPositions []string  `gorm:"serializer:json;type:text" json:"targetPositions"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsComplete reports whether every profile field has been filled in.
func (p *Profile) IsComplete() bool {
	if p == nil {
		return false
	}
	return p.Age != nil && p.GraduationYear != nil &&
		p.Education != "" && p.School != "" && p.Major != "" && p.MajorCategory != "" &&
		len(p.TargetPositions) > 0
}

// Resume is an uploaded CV file.
type Resume struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	StoredName string    `gorm:"size:255;not null" json:"storedName"`
	Path       string    `gorm:"size:500;not null" json:"-"`
	Size       int64     `json:"size"`
	FileType   string    `gorm:"size:10;not null" json:"fileType"`
	IsActive   bool      `gorm:"not null" json:"isActive"`
	IsParsed   bool      `gorm:"not null" json:"isParsed"`
	CreatedAt  time.Time `json:"createdAt"`
}
