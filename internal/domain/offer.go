package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Offer is a promotional record tied to a salon.
type Offer struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OffersID    string             `json:"offers_id" bson:"offers_id"`
	SalonID     string             `json:"salon_id" bson:"salon_id"`
	Title       string             `json:"title" bson:"title"`
	StartDate   FlexibleTime       `json:"start_date" bson:"start_date"`
	EndDate     FlexibleTime       `json:"end_date" bson:"end_date"`
	Condition   string             `json:"condition" bson:"condition"`
	Description string             `json:"description" bson:"description"`
	Discount    float64            `json:"discount" bson:"discount"`
	ImageURL    string             `json:"image_url" bson:"image_url"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
}

// OfferInput carries the client-supplied fields of a new offer.
type OfferInput struct {
	OffersID    string       `json:"offers_id" validate:"required"`
	SalonID     string       `json:"salon_id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	StartDate   FlexibleTime `json:"start_date" validate:"required"`
	EndDate     FlexibleTime `json:"end_date" validate:"required"`
	Condition   string       `json:"condition" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Discount    *float64     `json:"discount" validate:"required"`
	ImageURL    string       `json:"image_url" validate:"required"`
	IsActive    *bool        `json:"is_active"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// zero dates count as absent
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if ft, ok := field.Interface().(FlexibleTime); ok && !ft.IsZero() {
			return ft.Time
		}
		return nil
	}, FlexibleTime{})
	return v
}

// Validate returns a *ValidationError listing every missing required field.
func (in *OfferInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError(err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

// ToOffer builds the record to persist; is_active defaults to true.
func (in *OfferInput) ToOffer() *Offer {
	offer := &Offer{
		OffersID:    in.OffersID,
		SalonID:     in.SalonID,
		Title:       in.Title,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Condition:   in.Condition,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    true,
	}
	if in.Discount != nil {
		offer.Discount = *in.Discount
	}
	if in.IsActive != nil {
		offer.IsActive = *in.IsActive
	}
	return offer
}
