package store

import (
	"slices"

	"github.com/samhotchkiss/biztask/internal/models"
)

// MenuItem is one navigation entry.
type MenuItem struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Roles []models.Role `json:"-"`
}

var everyone = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleEmployee}

var menu = []MenuItem{
	{ID: "dashboard", Label: "Tổng quan", Roles: everyone},
	{ID: "departments", Label: "Phòng ban", Roles: []models.Role{models.RoleAdmin}},
	{ID: "employees", Label: "Nhân sự", Roles: []models.Role{models.RoleAdmin, models.RoleManager}},
	{ID: "tasks", Label: "Dự án & Công việc", Roles: everyone},
	{ID: "library", Label: "Thư viện", Roles: everyone},
	{ID: "calendar", Label: "Lịch biểu", Roles: everyone},
	{ID: "stats", Label: "Thống kê KPI", Roles: []models.Role{models.RoleAdmin, models.RoleManager}},
	{ID: "chat", Label: "Chat nội bộ", Roles: everyone},
	{ID: "settings", Label: "Cài đặt", Roles: everyone},
}

// MenuForRole lists the navigation entries shown to role. This filters what
// is displayed and does not restrict any operation.
func MenuForRole(role models.Role) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if slices.Contains(item.Roles, role) {
			out = append(out, item)
		}
	}
	return out
}
