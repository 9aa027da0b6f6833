// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation types.
const (
	DonationMoney    = "Money"
	DonationSupplies = "Supplies"
	DonationServices = "Services"
)

// Donation records money, supplies, or services pledged by a donor.
// Amount and Quantity are optional; nil means "not given".
type Donation struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	DonorName      string             `bson:"donor_name"`
	DonationType   string             `bson:"donation_type"`
	Amount         *float64           `bson:"amount,omitempty"`
	ResourceType   string             `bson:"resource_type,omitempty"`
	Quantity       *int               `bson:"quantity,omitempty"`
	TargetLocation string             `bson:"target_location,omitempty"`
	Notes          string             `bson:"notes,omitempty"`
	DateDonated    time.Time          `bson:"date_donated"`
}
