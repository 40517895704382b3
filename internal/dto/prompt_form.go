package dto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"prompt-library-be/pkg/utils"
)

// FieldErrors collects per-field decode failures.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

// ParsePromptInput decodes form style values. Only keys present in values are
// marked Set; an empty value clears a nullable field.
func ParsePromptInput(values map[string]string) (PromptInput, error) {
	var in PromptInput
	errs := FieldErrors{}

	if v, ok := values["title"]; ok {
		in.Title = Some(strings.TrimSpace(v))
	}
	if v, ok := values["prompt_text"]; ok {
		in.PromptText = Some(v)
	}
	if v, ok := values["output_text"]; ok {
		in.OutputText = Some(optionalString(v))
	}
	if v, ok := values["output_status"]; ok {
		in.OutputStatus = Some(optionalString(strings.TrimSpace(v)))
	}
	if v, ok := values["ai_tool_model"]; ok {
		in.AiToolModel = Some(optionalString(strings.TrimSpace(v)))
	}
	if v, ok := values["tags"]; ok {
		in.Tags = Some(utils.ParseTags(v))
	}
	if v, ok := values["rating"]; ok {
		if r, err := optionalInt(v); err != nil {
			errs["rating"] = "must be an integer"
		} else {
			in.Rating = Some(r)
		}
	}
	if v, ok := values["credits_used"]; ok {
		if c, err := optionalFloat(v); err != nil {
			errs["credits_used"] = "must be a number"
		} else {
			in.CreditsUsed = Some(c)
		}
	}

	ids := []struct {
		key string
		dst *Optional[*uint]
	}{
		{"ai_tool_id", &in.AiToolId},
		{"category_id", &in.CategoryId},
		{"type_id", &in.TypeId},
		{"source_id", &in.SourceId},
		{"parent_prompt_id", &in.ParentPromptId},
	}
	for _, f := range ids {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		id, err := optionalID(v)
		if err != nil {
			errs[f.key] = "must be a positive integer"
			continue
		}
		*f.dst = Some(id)
	}

	if v, ok := values["remove_attachment"]; ok {
		in.RemoveAttachment = v == "true" || v == "1"
	}

	if len(errs) > 0 {
		return PromptInput{}, errs
	}
	return in, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func optionalFloat(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func optionalID(v string) (*uint, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("invalid id %q", v)
	}
	id := uint(n)
	return &id, nil
}
