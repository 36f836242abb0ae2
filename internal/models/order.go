package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. pending → approved|rejected|canceled; approved → completed
// once the tracking log reaches its terminal entry.
const (
	OrderPending   = "pending"
	OrderApproved  = "approved"
	OrderRejected  = "rejected"
	OrderCompleted = "completed"
	OrderCanceled  = "canceled"
)

// Payment statuses for an order.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// TrackingActor identifies who appended a tracking entry.
type TrackingActor struct {
	Role  Role   `bson:"role" json:"role"`
	Email string `bson:"email" json:"email"`
}

// TrackingLog is one production/shipment event. Logs are append-only and
// served in insertion order.
type TrackingLog struct {
	Status    string        `bson:"status" json:"status"`
	Location  string        `bson:"location" json:"location"`
	Note      string        `bson:"note,omitempty" json:"note,omitempty"`
	By        TrackingActor `bson:"by" json:"by"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

// Order is a buyer booking for a single product. Price, totalPrice,
// managerEmail and trackingId are set server-side at creation and never
// taken from the client.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TrackingID      string             `bson:"trackingId" json:"trackingId"`
	UserID          string             `bson:"userId" json:"userId"`
	UserName        string             `bson:"userName" json:"userName"`
	UserEmail       string             `bson:"userEmail" json:"userEmail"`
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName     string             `bson:"productName" json:"productName"`
	Price           float64            `bson:"price" json:"price"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	Status          string             `bson:"status" json:"status"`
	PaymentOption   string             `bson:"paymentOption" json:"paymentOption"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID   string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	ManagerEmail    string             `bson:"managerEmail" json:"managerEmail"`
	ContactNumber   string             `bson:"contactNumber" json:"contactNumber"`
	DeliveryAddress string             `bson:"deliveryAddress" json:"deliveryAddress"`
	AdditionalNotes string             `bson:"additionalNotes,omitempty" json:"additionalNotes,omitempty"`
	RejectReason    string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	TrackingLogs    []TrackingLog      `bson:"trackingLogs" json:"trackingLogs"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	ApprovedAt      *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	RejectedAt      *time.Time         `bson:"rejectedAt,omitempty" json:"rejectedAt,omitempty"`
	CanceledAt      *time.Time         `bson:"canceledAt,omitempty" json:"canceledAt,omitempty"`
}
