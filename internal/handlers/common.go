// common.go
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

package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/earlysteps/casetrack/internal/middleware"
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// caller returns the identity resolved by the auth middleware.
func caller(c *fiber.Ctx) services.Caller {
	return middleware.Caller(c)
}

// parseBody unmarshals and validates a request body, answering the 400
// envelope itself on failure.
func parseBody(c *fiber.Ctx, dst interface{}) (ok bool, _ error) {
	if err := c.BodyParser(dst); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, validationMessage(err))
	}
	return true, nil
}

// validationMessage flattens the first validator failure into a readable
// message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		if f.Tag() == "required" {
			return "Field '" + f.Field() + "' is required"
		}
		return "Field '" + f.Field() + "' failed validation '" + f.Tag() + "'"
	}
	return "Invalid request body"
}

// serviceError maps a service error onto the response envelope.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return utils.ErrorResponse(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, err.Error())
	default:
		return utils.ServerErrorResponse(c, err)
	}
}

// multiValueQuery collects a query parameter that may repeat or carry
// comma-separated values, deduplicated in order of first appearance.
func multiValueQuery(c *fiber.Ctx, key string) []string {
	seen := make(map[string]struct{})
	var values []string

	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if string(k) != key {
			return
		}
		for _, part := range strings.Split(string(v), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			values = append(values, part)
		}
	})
	return values
}

// dateQuery parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func dateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key, "")
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date for '" + key + "'")
}

// boolQuery parses an optional true/false query parameter.
func boolQuery(c *fiber.Ctx, key string) *bool {
	switch c.Query(key, "") {
	case "true":
		t := true
		return &t
	case "false":
		f := false
		return &f
	}
	return nil
}
