package validators

import (
	"routebook/internal/models"
)

func ValidateComputeRequest(req *models.ComputeRequest) ValidationErrors {
	return ValidateStruct(req)
}

// ValidateSaveRouteRequest also checks that the supplied geometry would pass
// the same checks as a fresh routing response.
func ValidateSaveRouteRequest(req *models.SaveRouteRequest) ValidationErrors {
	errors := ValidateStruct(req)
	if len(errors) > 0 {
		return errors
	}

	if route := req.ToComputedRoute(); route.Result != nil {
		if err := route.Result.Validate(); err != nil {
			errors = append(errors, ValidationError{
				Field:   "routes",
				Tag:     "geometry",
				Message: err.Error(),
			})
		}
	}

	return errors
}

func ValidateFilterCriteria(criteria *models.FilterCriteria) ValidationErrors {
	return ValidateStruct(criteria)
}
