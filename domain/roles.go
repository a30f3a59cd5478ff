package domain

import "strings"

// RoleKey normalizes a trade name (worker type or manpower role name) into the key both sides join on.
// "  Mason ", "mason" and "MASON" share the key "mason"; inner whitespace collapses to one space.
func RoleKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
