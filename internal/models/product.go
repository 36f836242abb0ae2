package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment options offered per product.
const (
	PaymentCOD      = "COD"
	PaymentPayFirst = "PayFirst"
)

// Product is a garment listing owned by the manager identified by
// managerEmail. Quantity is the available stock; MOQ is the smallest
// quantity a buyer may book.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Category      string             `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	MOQ           int                `bson:"moq" json:"moq"`
	Images        []string           `bson:"images" json:"images"`
	VideoLink     string             `bson:"videoLink,omitempty" json:"videoLink,omitempty"`
	PaymentOption string             `bson:"paymentOption" json:"paymentOption"`
	ShowOnHome    bool               `bson:"showOnHome" json:"showOnHome"`
	ManagerEmail  string             `bson:"managerEmail" json:"managerEmail"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
