package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"strconv"
	"strings"

	"prompt-library-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const attachmentField = "attachment"

var errInvalidID = serverutils.NewBadRequest("id must be a positive integer")

func parseID(ctx *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(ctx.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func isMultipart(ctx *fiber.Ctx) bool {
	return strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// promptFormValues flattens a multipart, urlencoded or JSON body into the
// string form the prompt decoder expects, plus the optional attachment.
func promptFormValues(ctx *fiber.Ctx) (map[string]string, *multipart.FileHeader, error) {
	values := map[string]string{}

	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return nil, nil, serverutils.NewBadRequest("invalid multipart body")
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
		var file *multipart.FileHeader
		if files := form.File[attachmentField]; len(files) > 0 {
			file = files[0]
		}
		return values, file, nil
	}

	body := ctx.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return values, nil, nil
	}

	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm) {
		ctx.Request().PostArgs().VisitAll(func(k, v []byte) {
			values[string(k)] = string(v)
		})
		return values, nil, nil
	}

	raw := map[string]interface{}{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, serverutils.NewBadRequest("invalid JSON body")
	}
	for k, v := range raw {
		values[k] = jsonValueString(v)
	}
	return values, nil, nil
}

func jsonValueString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case []interface{}:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, jsonValueString(item))
		}
		return strings.Join(parts, ",")
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
