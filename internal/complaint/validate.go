package complaint

import (
	"errors"
	"hostelcare/portal/internal/models"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var fieldMessages = map[string]string{
	"category.required":    "Please select a category",
	"category.oneof":       "Please select a category",
	"subCategory.oneof":    "Please select a maintenance type",
	"description.required": "Please provide a description",
	"description.min":      "Description must be at least 10 characters long",
	"description.max":      "Description cannot exceed 1000 characters",
}

// ValidateNewComplaint normalises nc (trimmed description, subcategory only
// for Maintenance) and checks it. Problems come back as models.ValidationError
// keyed by JSON field name.
func ValidateNewComplaint(nc models.NewComplaint) (models.NewComplaint, error) {
	nc.Description = strings.TrimSpace(nc.Description)
	if nc.Category != models.CategoryMaintenance {
		nc.SubCategory = ""
	}

	errs := models.ValidationError{}
	if err := validate.Struct(nc); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nc, err
		}
		for _, fe := range ve {
			msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = "Invalid value"
			}
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = msg
			}
		}
	}

	if nc.Category == models.CategoryMaintenance && nc.SubCategory == "" {
		errs["subCategory"] = "Please select a maintenance type"
	}

	if len(errs) > 0 {
		return nc, errs
	}
	return nc, nil
}

// GroupMembers buckets the staff roster by category, keeping roster order.
func GroupMembers(members []models.Member) map[string][]models.Member {
	grouped := make(map[string][]models.Member)
	for _, m := range members {
		grouped[m.Category] = append(grouped[m.Category], m)
	}
	return grouped
}
