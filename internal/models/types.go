package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// QuizOptions is the fixed-arity option list stored as jsonb.
type QuizOptions []string

func (o QuizOptions) Value() (driver.Value, error) {
	if o == nil {
		o = QuizOptions{}
	}
	return json.Marshal(o)
}

func (o *QuizOptions) Scan(value interface{}) error {
	if value == nil {
		*o = QuizOptions{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for quiz options: %T", value)
	}

	return json.Unmarshal(data, o)
}

// DerivedPricing is the display trio computed from a course price.
type DerivedPricing struct {
	Type       string
	PriceLabel string
	ButtonText string
}

// DeriveCoursePricing is the single place a price becomes display fields:
// price > 0 means a paid course with a dollar label, price == 0 means free
// with the storefront's free-watch wording. Negative prices are rejected.
func DeriveCoursePricing(price float64) (DerivedPricing, error) {
	if price < 0 {
		return DerivedPricing{}, errors.New("course price cannot be negative")
	}

	if price > 0 {
		return DerivedPricing{
			Type:       CourseTypePaid,
			PriceLabel: fmt.Sprintf("$%g", price),
			ButtonText: "Faahfaahin",
		}, nil
	}

	return DerivedPricing{
		Type:       CourseTypeFree,
		PriceLabel: "FREE",
		ButtonText: "Daawo Bilaash",
	}, nil
}
