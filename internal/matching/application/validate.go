package application

import (
	"fmt"
	"slices"
	"strings"

	"adoption-workers/internal/models"
)

const (
	IssueMissing       = "MISSING_REQUIRED"
	IssueInvalidOption = "INVALID_OPTION"
)

// FormIssue is one problem found in an application form.
type FormIssue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckForm lists unanswered criteria and answers outside the rubric options.
// Criteria excluded for the animal's age class are not checked. An empty
// result means every scored criterion can earn its full weight range.
func CheckForm(form models.ApplicationForm, age models.AnimalAge) []FormIssue {
	puppy := age.IsPuppy()
	var issues []FormIssue
	for _, c := range rubric {
		if c.puppyOnly && !puppy {
			continue
		}
		value := strings.TrimSpace(c.answer(form))
		if value == "" {
			issues = append(issues, FormIssue{
				Field:   c.name,
				Code:    IssueMissing,
				Message: fmt.Sprintf("%s is required", c.name),
			})
			continue
		}
		if _, ok := c.options[value]; !ok {
			issues = append(issues, FormIssue{
				Field:   c.name,
				Code:    IssueInvalidOption,
				Message: fmt.Sprintf("%q is not one of %s", value, strings.Join(Options(c.name), ", ")),
			})
		}
	}
	return issues
}

// Options returns the accepted answers of a criterion, sorted. Unknown
// criteria have none.
func Options(criterion string) []string {
	for _, c := range rubric {
		if c.name != criterion {
			continue
		}
		out := make([]string, 0, len(c.options))
		for opt := range c.options {
			out = append(out, opt)
		}
		slices.Sort(out)
		return out
	}
	return nil
}

// Criteria is the number of criteria scored for an animal of the given age.
func Criteria(age models.AnimalAge) int {
	n := 0
	for _, c := range rubric {
		if !c.puppyOnly || age.IsPuppy() {
			n++
		}
	}
	return n
}
