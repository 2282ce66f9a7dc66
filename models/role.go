package models

import "time"

type Role struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Name        string           `gorm:"size:100;uniqueIndex" json:"name"`
	Description string           `gorm:"size:255" json:"description"`
	Permissions []RolePermission `gorm:"foreignKey:RoleID" json:"permissions"`
	Members     []Admin          `gorm:"many2many:role_members;joinForeignKey:RoleID;joinReferences:AdminID" json:"members"`
	CreatedAt   time.Time        `json:"created_at"`
}

type RolePermission struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoleID     uint   `gorm:"not null;index:idx_role_permission,unique" json:"role_id"`
	Permission string `gorm:"size:150;not null;index:idx_role_permission,unique" json:"permission"`
}

type RoleMember struct {
	RoleID  uint `gorm:"primaryKey" json:"role_id"`
	AdminID uint `gorm:"primaryKey" json:"admin_id"`
}

// PermissionModules lists the "module.action" pairs a role can be granted.
var PermissionModules = map[string][]string{
	"tours":        {"view", "create", "edit", "delete"},
	"participants": {"view", "create", "edit", "delete", "export"},
	"rooms":        {"view", "edit"},
	"teeTimes":     {"view", "edit"},
	"messages":     {"view", "send"},
	"customers":    {"view", "create", "edit", "delete"},
	"memos":        {"view", "create", "edit", "delete"},
	"payments":     {"view", "edit"},
	"settlements":  {"view", "edit", "confirm"},
	"quotes":       {"view", "create", "edit", "send"},
	"admins":       {"view", "create", "delete"},
	"roles":        {"view", "edit"},
	"settings":     {"view", "edit"},
}
