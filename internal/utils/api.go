package utils

import (
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"talhoes.dashboard.org/internal/dataset"
	"talhoes.dashboard.org/internal/models"
)

// Query parameter names shared by every dashboard view.
const (
	FarmParam   = "farm"
	AgeMinParam = "ageMin"
	AgeMaxParam = "ageMax"
	ColorParam  = "color"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0; an invalid value is recorded in fieldErrors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// ParseIntParam is ParseFloatParam for integers, with def returned when the key is absent.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := strings.TrimSpace(params.Get(key))
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseBoolParam accepts true/false/1/0; anything else is a field error.
func ParseBoolParam(params url.Values, key string, fieldErrors map[string][]string) (bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return false, fieldErrors
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return b, fieldErrors
}

// FilterParams is the sidebar state carried in the query string.
type FilterParams struct {
	Filter dataset.Filter
	Color  models.Indicator
}

func (p FilterParams) Model() models.FilterModel {
	return p.Filter.Model(p.Color)
}

// Encode renders p back into query parameters. An empty farm selection is
// kept as a single empty "farm" value so it is not mistaken for "all farms".
func (p FilterParams) Encode() url.Values {
	v := url.Values{}
	if len(p.Filter.Farms) == 0 {
		v.Add(FarmParam, "")
	}
	for _, f := range p.Filter.Farms {
		v.Add(FarmParam, f)
	}
	v.Set(AgeMinParam, strconv.Itoa(p.Filter.AgeMin))
	v.Set(AgeMaxParam, strconv.Itoa(p.Filter.AgeMax))
	v.Set(ColorParam, string(p.Color))
	return v
}

// ParseFilter reads the shared filter parameters. A missing "farm" key selects
// every farm; present but blank values select none. Missing ages fall back to
// the dataset bounds.
func ParseFilter(params url.Values, ds *dataset.Dataset) (FilterParams, map[string][]string) {
	fieldErrors := make(map[string][]string)
	f := ds.DefaultFilter()

	if raw, ok := params[FarmParam]; ok {
		farms := []string{}
		for _, farm := range raw {
			farm = SanitizeInput(farm)
			if farm == "" {
				continue
			}
			if err := ValidateFarmName(farm); err != nil {
				fieldErrors[FarmParam] = append(fieldErrors[FarmParam], err.Error())
				continue
			}
			if !ds.HasFarm(farm) {
				fieldErrors[FarmParam] = append(fieldErrors[FarmParam], fmt.Sprintf("unknown farm %q", farm))
				continue
			}
			if !slices.Contains(farms, farm) {
				farms = append(farms, farm)
			}
		}
		f.Farms = farms
	}

	f.AgeMin, fieldErrors = ParseIntParam(params, AgeMinParam, f.AgeMin, fieldErrors)
	f.AgeMax, fieldErrors = ParseIntParam(params, AgeMaxParam, f.AgeMax, fieldErrors)
	if err := ValidateAge(f.AgeMin); err != nil {
		fieldErrors[AgeMinParam] = append(fieldErrors[AgeMinParam], err.Error())
	}
	if err := ValidateAge(f.AgeMax); err != nil {
		fieldErrors[AgeMaxParam] = append(fieldErrors[AgeMaxParam], err.Error())
	}

	color := models.Productivity
	if raw := params.Get(ColorParam); raw != "" {
		ind, err := ParseColorIndicator(raw)
		if err != nil {
			fieldErrors[ColorParam] = append(fieldErrors[ColorParam], err.Error())
		} else {
			color = ind
		}
	}

	return FilterParams{Filter: f, Color: color}, fieldErrors
}

// ParseColorIndicator accepts only the indicators the map can be coloured by.
func ParseColorIndicator(name string) (models.Indicator, error) {
	ind, err := models.ParseIndicator(name)
	if err != nil {
		return "", err
	}
	if !slices.Contains(models.ColorIndicators(), ind) {
		return "", fmt.Errorf("%w: %q cannot colour the map", models.ErrUnknownIndicator, name)
	}
	return ind, nil
}
