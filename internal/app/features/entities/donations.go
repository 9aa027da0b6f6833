// internal/app/features/entities/donations.go
package entities

import (
	"net/url"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type donationInput struct {
	DonorName      string `validate:"required,max=100" label:"Donor name"`
	DonationType   string `validate:"required,oneof=Money|Supplies|Services" label:"Donation type"`
	ResourceType   string `validate:"max=100" label:"Resource type"`
	TargetLocation string `validate:"max=100" label:"Target location"`
	Notes          string `validate:"max=500" label:"Notes"`
}

// Donations describes donations.
func Donations() *Kind[models.Donation] {
	return &Kind[models.Donation]{
		Key:       "donation",
		Singular:  "Donation",
		Plural:    "Donations",
		Base:      "/donations",
		Coll:      models.CollDonations,
		SortField: "date_donated",
		SortDesc:  true,
		Fields: []Field{
			{Name: "donor_name", Label: "Donor name", Type: TypeText, Required: true},
			{Name: "donation_type", Label: "Donation type", Type: TypeSelect, Required: true,
				Options: []string{models.DonationMoney, models.DonationSupplies, models.DonationServices}},
			{Name: "amount", Label: "Amount", Type: TypeNumber, Step: "0.01"},
			{Name: "resource_type", Label: "Resource type", Type: TypeText},
			{Name: "quantity", Label: "Quantity", Type: TypeNumber, Step: "1"},
			{Name: "target_location", Label: "Target location", Type: TypeText},
			{Name: "notes", Label: "Notes", Type: TypeTextarea},
			{Name: "date_donated", Label: "Date donated", Type: TypeDate, Required: true},
		},
		Columns:     []string{"date_donated", "donor_name", "donation_type", "amount", "target_location"},
		DeleteRoles: authz.AdminOnly,

		Blank: func(now time.Time) models.Donation {
			return models.Donation{DonationType: models.DonationMoney, DateDonated: startOfDay(now)}
		},
		Decode: decodeDonation,
		Encode: func(rec models.Donation) map[string]string {
			return map[string]string{
				"donor_name":      rec.DonorName,
				"donation_type":   rec.DonationType,
				"amount":          fmtFloat(rec.Amount),
				"resource_type":   rec.ResourceType,
				"quantity":        fmtInt(rec.Quantity),
				"target_location": rec.TargetLocation,
				"notes":           rec.Notes,
				"date_donated":    fmtDate(rec.DateDonated),
			}
		},
		ID:    func(rec models.Donation) primitive.ObjectID { return rec.ID },
		Label: func(rec models.Donation) string { return rec.DonationType + " from " + rec.DonorName },
	}
}

func decodeDonation(f url.Values, now time.Time) (models.Donation, string) {
	fr := newFormReader(f)
	in := donationInput{
		DonorName:      fr.text("donor_name"),
		DonationType:   fr.text("donation_type"),
		ResourceType:   fr.text("resource_type"),
		TargetLocation: fr.text("target_location"),
		Notes:          fr.text("notes"),
	}
	amount := fr.optFloat("amount", "Amount")
	qty := fr.optInt("quantity", "Quantity")
	donated := fr.date("date_donated", "Date donated", now)
	if fr.msg != "" {
		return models.Donation{}, fr.msg
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Donation{}, res.First()
	}
	if amount != nil && *amount < 1 {
		return models.Donation{}, "Amount must be greater than zero."
	}
	if qty != nil && *qty < 0 {
		return models.Donation{}, "Quantity cannot be negative."
	}

	return models.Donation{
		DonorName:      in.DonorName,
		DonationType:   in.DonationType,
		Amount:         amount,
		ResourceType:   in.ResourceType,
		Quantity:       qty,
		TargetLocation: in.TargetLocation,
		Notes:          in.Notes,
		DateDonated:    donated,
	}, ""
}
