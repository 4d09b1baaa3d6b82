package inmemdb

import (
	"sort"
	"strings"

	"github.com/simtahfidz/backend/core"
	"github.com/simtahfidz/backend/core/user"
)

func sortRoles(roles []user.Role) {
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
}

func sortStrings(s []string) {
	sort.Strings(s)
}

// sortUsers applies `ordering` (by json field name), falling back to name ascending.
func sortUsers(users []user.User, ordering []core.DBOrdering) {
	less := func(a, b user.User, field string) (bool, bool) { // (less, equal)
		switch field {
		case "email":
			return a.Email < b.Email, a.Email == b.Email
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		case "updatedAt":
			return a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		default:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			return an < bn, an == bn
		}
	}
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "name", Ascending: true}}
	}

	sort.SliceStable(users, func(i, j int) bool {
		for _, ord := range ordering {
			lt, eq := less(users[i], users[j], ord.Field)
			if eq {
				continue
			}
			if ord.Ascending {
				return lt
			}
			return !lt
		}
		return false
	})
}
