package handlers

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"gopts/internal/models"
)

type productCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Price         float64  `json:"price" binding:"required"`
	Quantity      int      `json:"quantity" binding:"required"`
	MOQ           int      `json:"moq" binding:"required"`
	Images        []string `json:"images" binding:"required"`
	VideoLink     string   `json:"videoLink"`
	PaymentOption string   `json:"paymentOption" binding:"required"`
	ShowOnHome    bool     `json:"showOnHome"`
}

type productUpdateRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	Price         *float64  `json:"price"`
	Quantity      *int      `json:"quantity"`
	MOQ           *int      `json:"moq"`
	Images        *[]string `json:"images"`
	VideoLink     *string   `json:"videoLink"`
	PaymentOption *string   `json:"paymentOption"`
	ShowOnHome    *bool     `json:"showOnHome"`
	Status        *string   `json:"status"`
}

func validatePaymentOption(value string) error {
	switch value {
	case models.PaymentCOD, models.PaymentPayFirst:
		return nil
	default:
		return fmt.Errorf("paymentOption must be %s or %s", models.PaymentCOD, models.PaymentPayFirst)
	}
}

func (r productCreateRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name required")
	}
	if r.Price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity must be zero or greater")
	}
	if r.MOQ < 1 {
		return fmt.Errorf("moq must be at least 1")
	}
	if r.MOQ > r.Quantity {
		return fmt.Errorf("moq cannot exceed available quantity")
	}
	if len(r.Images) == 0 {
		return fmt.Errorf("at least one image is required")
	}
	return validatePaymentOption(r.PaymentOption)
}

// buildProductUpdate turns a partial update request into a $set document,
// validating each supplied field. An empty result means no fields were sent.
func buildProductUpdate(req productUpdateRequest) (bson.M, error) {
	updateSet := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name required")
		}
		updateSet["name"] = name
	}
	if req.Description != nil {
		updateSet["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, fmt.Errorf("category required")
		}
		updateSet["category"] = category
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("price must be greater than 0")
		}
		updateSet["price"] = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity must be zero or greater")
		}
		updateSet["quantity"] = *req.Quantity
	}
	if req.MOQ != nil {
		if *req.MOQ < 1 {
			return nil, fmt.Errorf("moq must be at least 1")
		}
		updateSet["moq"] = *req.MOQ
	}
	if req.Images != nil {
		if len(*req.Images) == 0 {
			return nil, fmt.Errorf("at least one image is required")
		}
		updateSet["images"] = *req.Images
	}
	if req.VideoLink != nil {
		updateSet["videoLink"] = strings.TrimSpace(*req.VideoLink)
	}
	if req.PaymentOption != nil {
		if err := validatePaymentOption(*req.PaymentOption); err != nil {
			return nil, err
		}
		updateSet["paymentOption"] = *req.PaymentOption
	}
	if req.ShowOnHome != nil {
		updateSet["showOnHome"] = *req.ShowOnHome
	}
	if req.Status != nil {
		updateSet["status"] = strings.TrimSpace(*req.Status)
	}

	return updateSet, nil
}
