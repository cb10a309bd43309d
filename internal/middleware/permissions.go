// permissions.go
//
// A scalable, high performance drop-in replacement for the casetrack nodejs backend
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of casetrack.
// casetrack is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// casetrack is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with casetrack.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package middleware

import (
	"fmt"

	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/types"
	"github.com/gofiber/fiber/v2"
)

// permission identifies one (resource, operation) pair in the role table.
type permission struct {
	resource  string
	operation string
}

var (
	adminOnly      = []string{models.RoleAdmin}
	adminVolunteer = []string{models.RoleAdmin, models.RoleVolunteer}
	anyRole        = models.AllRoles
)

// permissionTable is the single source of truth for which roles may reach
// which operation. Row-level ownership (a parent reading only their own
// child, a volunteer editing only their own visit) is enforced in the
// services; this table gates by role alone.
var permissionTable = map[permission][]string{
	{"users", "list"}:   adminOnly,
	{"users", "read"}:   adminOnly,
	{"users", "update"}: anyRole,
	{"users", "delete"}: adminOnly,

	{"children", "create"}: anyRole,
	{"children", "list"}:   anyRole,
	{"children", "read"}:   anyRole,
	{"children", "update"}: anyRole,
	{"children", "delete"}: adminOnly,

	{"milestones", "create"}: anyRole,
	{"milestones", "read"}:   anyRole,
	{"milestones", "list"}:   anyRole,
	{"milestones", "update"}: anyRole,

	{"visits", "create"}:      adminVolunteer,
	{"visits", "read"}:        anyRole,
	{"visits", "list"}:        anyRole,
	{"visits", "byVolunteer"}: adminVolunteer,
	{"visits", "update"}:      adminVolunteer,

	{"activities", "create"}: adminOnly,
	{"activities", "list"}:   anyRole,
	{"activities", "read"}:   anyRole,
	{"activities", "update"}: adminOnly,

	{"reports", "child"}:     anyRole,
	{"reports", "summary"}:   adminOnly,
	{"reports", "volunteer"}: adminVolunteer,
}

// Authorize gates a route on the role table. It must run after Protect.
// Unknown (resource, operation) pairs deny everything; a typo fails closed.
func Authorize(resource, operation string) fiber.Handler {
	allowed := permissionTable[permission{resource, operation}]
	return func(c *fiber.Ctx) error {
		caller := Caller(c)
		for _, role := range allowed {
			if caller.Role == role {
				return c.Next()
			}
		}
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: fmt.Sprintf("Role %s is not authorized to access this route", caller.Role),
			Type:    fmt.Sprintf("authorization.%s.%s", resource, operation),
		}
	}
}
