package services

import (
	"strconv"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"

	"gorm.io/gorm"
)

type RoleService struct {
	DB *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{DB: db}
}

type RoleMemberView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RoleView struct {
	ID          uint                       `json:"id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Permissions map[string]map[string]bool `json:"permissions"`
	Members     []RoleMemberView           `json:"members"`
}

func defaultPermissionMap() map[string]map[string]bool {
	permMap := map[string]map[string]bool{}
	for module, actions := range models.PermissionModules {
		permMap[module] = map[string]bool{}
		for _, action := range actions {
			permMap[module][action] = false
		}
	}
	return permMap
}

// GetRoles renders each role's "module.action" permissions as a module -> action -> granted map.
func (s *RoleService) GetRoles() ([]RoleView, error) {
	var roles []models.Role
	if err := s.DB.Preload("Permissions").Preload("Members").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	out := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		permMap := defaultPermissionMap()
		for _, perm := range role.Permissions {
			parts := strings.Split(perm.Permission, ".")
			if len(parts) != 2 {
				continue
			}
			if _, ok := permMap[parts[0]]; !ok {
				permMap[parts[0]] = map[string]bool{}
			}
			permMap[parts[0]][parts[1]] = true
		}
		members := make([]RoleMemberView, 0, len(role.Members))
		for _, a := range role.Members {
			members = append(members, RoleMemberView{ID: a.ID, Name: a.FullName, Username: a.Username})
		}
		out = append(out, RoleView{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			Permissions: permMap,
			Members:     members,
		})
	}
	return out, nil
}

// findRole accepts a numeric id or a role name.
func (s *RoleService) findRole(ref string) (*models.Role, error) {
	ref = strings.TrimSpace(ref)
	var role models.Role
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		if err := s.DB.First(&role, id).Error; err != nil {
			return nil, notFound(err)
		}
		return &role, nil
	}
	if err := s.DB.Where("name = ?", ref).First(&role).Error; err != nil {
		return nil, notFound(err)
	}
	return &role, nil
}

// UpdateRolePermissions replaces the role's permission set.
func (s *RoleService) UpdateRolePermissions(ref string, permissions []string) error {
	role, err := s.findRole(ref)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	perms := make([]models.RolePermission, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		if len(strings.Split(p, ".")) != 2 {
			return invalid("permissions", "expected module.action, got "+p)
		}
		seen[p] = true
		perms = append(perms, models.RolePermission{RoleID: role.ID, Permission: p})
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(perms) > 0 {
			return tx.Create(&perms).Error
		}
		return nil
	})
}

// HasPermission reports whether a role name grants "module.action". The owner role grants everything.
func (s *RoleService) HasPermission(roleName, permission string) (bool, error) {
	if roleName == "owner" {
		return true, nil
	}
	var n int64
	err := s.DB.Model(&models.RolePermission{}).
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.name = ? AND role_permissions.permission = ?", roleName, permission).
		Count(&n).Error
	return n > 0, err
}
