package models

import "time"

// Follow is a directed edge: UserFollowingID follows UserBeingFollowedID.
// The composite primary key forbids duplicate edges.
type Follow struct {
	UserBeingFollowedID uint      `gorm:"primaryKey;autoIncrement:false;check:chk_follows_not_self,user_being_followed_id <> user_following_id" json:"user_being_followed_id"`
	UserFollowingID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"user_following_id"`
	CreatedAt           time.Time `json:"created_at"`
	UserBeingFollowed   User      `gorm:"foreignKey:UserBeingFollowedID;constraint:OnDelete:CASCADE" json:"-"`
	UserFollowing       User      `gorm:"foreignKey:UserFollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string {
	return "follows"
}
