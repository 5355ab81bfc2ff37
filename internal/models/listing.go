package models

import (
	"time"
)

// CommunityListing represents a community group submitted to the directory
type CommunityListing struct {
	ID          string    `gorm:"primaryKey;type:uuid;column:id" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;column:name" json:"name"`
	Platform    Platform  `gorm:"type:varchar(16);not null;column:platform" json:"platform"`
	URL         string    `gorm:"type:varchar(2048);not null;column:url" json:"url"`
	City        string    `gorm:"type:varchar(128);not null;column:city" json:"city"`
	State       string    `gorm:"type:varchar(64);not null;default:'';column:state" json:"state"`
	MemberCount int64     `gorm:"not null;default:0;check:communities_member_count_check,member_count >= 0;column:member_count" json:"member_count"`
	PostsPerDay float64   `gorm:"type:float;not null;default:0;check:communities_posts_per_day_check,posts_per_day >= 0;column:posts_per_day" json:"posts_per_day"`
	Rating      float64   `gorm:"type:float;not null;default:0;check:communities_rating_check,rating >= 0 AND rating <= 5;column:rating" json:"rating"`
	Status      Status    `gorm:"type:varchar(16);not null;default:'pending';index:communities_status_idx;column:status" json:"status"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for CommunityListing
func (CommunityListing) TableName() string {
	return "communities"
}
