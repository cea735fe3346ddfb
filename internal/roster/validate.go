package roster

import (
	"errors"
	"hostelcare/portal/internal/models"
	"reflect"
	"slices"
	"strconv"
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
	"name.required":         "Name is required",
	"name.max":              "Name cannot exceed 100 characters",
	"rollNumber.required":   "Roll number is required",
	"rollNumber.alphanum":   "Roll number may only contain letters and digits",
	"rollNumber.max":        "Roll number cannot exceed 20 characters",
	"course.required":       "Please select a course",
	"course.oneof":          "Please select a course",
	"year.required":         "Please select a year",
	"year.oneof":            "Please select a year",
	"branch.required":       "Please select a branch",
	"roomNumber.required":   "Please select a room",
	"roomNumber.numeric":    "Please select a room",
	"studentPhone.required": "Student phone is required",
	"studentPhone.numeric":  "Phone number must be 10 digits",
	"studentPhone.len":      "Phone number must be 10 digits",
	"parentPhone.required":  "Parent phone is required",
	"parentPhone.numeric":   "Phone number must be 10 digits",
	"parentPhone.len":       "Phone number must be 10 digits",
	"title.required":        "Title is required",
	"title.max":             "Title cannot exceed 200 characters",
	"description.required":  "Description is required",
	"description.max":       "Description cannot exceed 5000 characters",
}

// ValidateStudent trims in and checks it, including that the branch and
// year exist for the chosen course.
func ValidateStudent(in models.StudentInput) (models.StudentInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.RollNumber = strings.ToUpper(strings.TrimSpace(in.RollNumber))
	in.Branch = strings.TrimSpace(in.Branch)
	in.RoomNumber = strings.TrimSpace(in.RoomNumber)
	in.StudentPhone = strings.TrimSpace(in.StudentPhone)
	in.ParentPhone = strings.TrimSpace(in.ParentPhone)

	errs, err := check(in)
	if err != nil {
		return in, err
	}

	if branches, known := models.Courses[in.Course]; known {
		if _, seen := errs["branch"]; !seen && !slices.Contains(branches, in.Branch) {
			errs["branch"] = "Branch is not offered for " + in.Course
		}
		if _, seen := errs["year"]; !seen {
			if y, _ := strconv.Atoi(in.Year); y > models.CourseYears[in.Course] {
				errs["year"] = in.Course + " runs for " + strconv.Itoa(models.CourseYears[in.Course]) + " years"
			}
		}
	}

	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

func ValidateAnnouncement(in models.AnnouncementInput) (models.AnnouncementInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	errs, err := check(in)
	if err != nil {
		return in, err
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// check keeps the first failing rule per field.
func check(v any) (models.ValidationError, error) {
	errs := models.ValidationError{}
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, err
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
	return errs, nil
}
