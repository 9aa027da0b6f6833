// internal/app/features/entities/volunteers.go
package entities

import (
	"context"
	"net/url"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// choiceLimit caps how many records a reference select offers.
const choiceLimit = 500

type volunteerInput struct {
	FullName          string `validate:"required,max=100" label:"Full name"`
	ContactNumber     string `validate:"required,phone" label:"Contact number"`
	Email             string `validate:"max=100,email" label:"Email"`
	Skills            string `validate:"required,max=200" label:"Skills"`
	PreferredLocation string `validate:"max=100" label:"Preferred location"`
}

// Volunteers describes volunteers. Coordinators (the Volunteer role) manage
// them alongside admins.
func Volunteers() *Kind[models.Volunteer] {
	return &Kind[models.Volunteer]{
		Key:       "volunteer",
		Singular:  "Volunteer",
		Plural:    "Volunteers",
		Base:      "/volunteers",
		Coll:      models.CollVolunteers,
		SortField: "full_name",
		Fields: []Field{
			{Name: "full_name", Label: "Full name", Type: TypeText, Required: true},
			{Name: "contact_number", Label: "Contact number", Type: TypeTel, Required: true},
			{Name: "email", Label: "Email", Type: TypeEmail},
			{Name: "skills", Label: "Skills", Type: TypeText, Required: true},
			{Name: "available_from", Label: "Available from", Type: TypeDate},
			{Name: "preferred_location", Label: "Preferred location", Type: TypeText},
			{Name: "is_assigned", Label: "Assigned", Type: TypeCheckbox},
		},
		Columns:     []string{"full_name", "contact_number", "skills", "preferred_location", "is_assigned"},
		DeleteRoles: authz.VolunteerStaff,

		Blank: func(now time.Time) models.Volunteer {
			return models.Volunteer{AvailableFrom: startOfDay(now)}
		},
		Decode: decodeVolunteer,
		Encode: func(rec models.Volunteer) map[string]string {
			return map[string]string{
				"full_name":          rec.FullName,
				"contact_number":     rec.ContactNumber,
				"email":              rec.Email,
				"skills":             rec.Skills,
				"available_from":     fmtDate(rec.AvailableFrom),
				"preferred_location": rec.PreferredLocation,
				"is_assigned":        fmtBool(rec.IsAssigned),
			}
		},
		ID:    func(rec models.Volunteer) primitive.ObjectID { return rec.ID },
		Label: func(rec models.Volunteer) string { return rec.FullName },
	}
}

func decodeVolunteer(f url.Values, now time.Time) (models.Volunteer, string) {
	fr := newFormReader(f)
	in := volunteerInput{
		FullName:          fr.text("full_name"),
		ContactNumber:     fr.text("contact_number"),
		Email:             fr.text("email"),
		Skills:            fr.text("skills"),
		PreferredLocation: fr.text("preferred_location"),
	}
	from := fr.date("available_from", "Available from", startOfDay(now))
	if fr.msg != "" {
		return models.Volunteer{}, fr.msg
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Volunteer{}, res.First()
	}

	return models.Volunteer{
		FullName:          in.FullName,
		ContactNumber:     in.ContactNumber,
		Email:             in.Email,
		Skills:            in.Skills,
		AvailableFrom:     from,
		PreferredLocation: in.PreferredLocation,
		IsAssigned:        fr.checkbox("is_assigned"),
	}, ""
}

// volunteerChoices offers volunteers by name.
func volunteerChoices(ctx context.Context, recs records.Store) ([]Option, error) {
	var vols []models.Volunteer
	err := recs.List(ctx, models.CollVolunteers, nil, records.ListOptions{SortField: "full_name", Limit: choiceLimit}, &vols)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(vols))
	for _, v := range vols {
		out = append(out, Option{Value: v.ID.Hex(), Label: v.FullName})
	}
	return out, nil
}

// reportChoices offers the most recent disaster reports.
func reportChoices(ctx context.Context, recs records.Store) ([]Option, error) {
	var reps []models.DisasterReport
	err := recs.List(ctx, models.CollDisasterReports, nil, records.ListOptions{SortField: "date_reported", SortDesc: true, Limit: choiceLimit}, &reps)
	if err != nil {
		return nil, err
	}
	out := make([]Option, 0, len(reps))
	for _, rep := range reps {
		out = append(out, Option{
			Value: rep.ID.Hex(),
			Label: rep.DisasterType + " at " + rep.Location + " (" + fmtDate(rep.DateReported) + ")",
		})
	}
	return out, nil
}
