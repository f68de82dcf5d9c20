package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/0knotok/cloud-demo-throttling/internal/domain"
)

// parseMultipartOffer reads offer fields from a multipart form. Absent fields
// stay empty so validation can report them; present but malformed values fail here.
func parseMultipartOffer(c *gin.Context) (domain.OfferInput, error) {
	in := domain.OfferInput{
		OffersID:    strings.TrimSpace(c.PostForm("offers_id")),
		SalonID:     strings.TrimSpace(c.PostForm("salon_id")),
		Title:       strings.TrimSpace(c.PostForm("title")),
		Condition:   strings.TrimSpace(c.PostForm("condition")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}

	var err error
	if in.StartDate, err = formDate(c, "start_date"); err != nil {
		return domain.OfferInput{}, err
	}
	if in.EndDate, err = formDate(c, "end_date"); err != nil {
		return domain.OfferInput{}, err
	}

	if value, ok := c.GetPostForm("discount"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return domain.OfferInput{}, fmt.Errorf("discount: %w", err)
		}
		in.Discount = &parsed
	}

	if value, ok := c.GetPostForm("is_active"); ok && strings.TrimSpace(value) != "" {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return domain.OfferInput{}, fmt.Errorf("is_active: %w", err)
		}
		in.IsActive = &parsed
	}

	return in, nil
}

func formDate(c *gin.Context, field string) (domain.FlexibleTime, error) {
	value := strings.TrimSpace(c.PostForm(field))
	if value == "" {
		return domain.FlexibleTime{}, nil
	}
	parsed, err := domain.ParseFlexibleTime(value)
	if err != nil {
		return domain.FlexibleTime{}, fmt.Errorf("%s: %w", field, err)
	}
	return parsed, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}
