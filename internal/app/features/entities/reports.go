// internal/app/features/entities/reports.go
package entities

import (
	"net/url"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/reliefhub/internal/app/system/inputval"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type reportInput struct {
	Location       string `validate:"required,max=100" label:"Location"`
	DisasterType   string `validate:"required,max=50" label:"Disaster type"`
	Description    string `validate:"max=500" label:"Description"`
	Severity       string `validate:"required,max=50,oneof=Low|Moderate|High|Critical" label:"Severity"`
	ReliefRequired string `validate:"max=200" label:"Relief required"`
	ReporterName   string `validate:"max=100" label:"Reporter name"`
	Status         string `validate:"required,max=30" label:"Status"`
}

// Reports describes disaster reports.
func Reports() *Kind[models.DisasterReport] {
	return &Kind[models.DisasterReport]{
		Key:       "report",
		Singular:  "Disaster report",
		Plural:    "Disaster reports",
		Base:      "/reports",
		Coll:      models.CollDisasterReports,
		SortField: "date_reported",
		SortDesc:  true,
		Fields: []Field{
			{Name: "location", Label: "Location", Type: TypeText, Required: true},
			{Name: "disaster_type", Label: "Disaster type", Type: TypeText, Required: true},
			{Name: "description", Label: "Description", Type: TypeTextarea},
			{Name: "date_reported", Label: "Date reported", Type: TypeDate},
			{Name: "severity", Label: "Severity", Type: TypeSelect, Required: true,
				Options: []string{models.SeverityLow, models.SeverityModerate, models.SeverityHigh, models.SeverityCritical}},
			{Name: "relief_required", Label: "Relief required", Type: TypeText},
			{Name: "reporter_name", Label: "Reporter name", Type: TypeText},
			{Name: "status", Label: "Status", Type: TypeText, Required: true},
			{Name: "is_verified", Label: "Verified", Type: TypeCheckbox},
		},
		Columns:     []string{"date_reported", "location", "disaster_type", "severity", "status", "is_verified"},
		DeleteRoles: authz.AdminOnly,

		Blank: func(now time.Time) models.DisasterReport {
			return models.DisasterReport{
				DateReported: startOfDay(now),
				Severity:     models.SeverityModerate,
				Status:       models.ReportStatusPending,
			}
		},
		Decode: decodeReport,
		Encode: func(rec models.DisasterReport) map[string]string {
			return map[string]string{
				"location":        rec.Location,
				"disaster_type":   rec.DisasterType,
				"description":     rec.Description,
				"date_reported":   fmtDate(rec.DateReported),
				"severity":        rec.Severity,
				"relief_required": rec.ReliefRequired,
				"reporter_name":   rec.ReporterName,
				"status":          rec.Status,
				"is_verified":     fmtBool(rec.IsVerified),
			}
		},
		ID:    func(rec models.DisasterReport) primitive.ObjectID { return rec.ID },
		Label: func(rec models.DisasterReport) string { return rec.DisasterType + " at " + rec.Location },
	}
}

func decodeReport(f url.Values, now time.Time) (models.DisasterReport, string) {
	fr := newFormReader(f)
	in := reportInput{
		Location:       fr.text("location"),
		DisasterType:   fr.text("disaster_type"),
		Description:    fr.text("description"),
		Severity:       fr.text("severity"),
		ReliefRequired: fr.text("relief_required"),
		ReporterName:   fr.text("reporter_name"),
		Status:         fr.text("status"),
	}
	if in.Status == "" {
		in.Status = models.ReportStatusPending
	}
	dated := fr.date("date_reported", "Date reported", now)
	if fr.msg != "" {
		return models.DisasterReport{}, fr.msg
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.DisasterReport{}, res.First()
	}

	return models.DisasterReport{
		Location:       in.Location,
		DisasterType:   in.DisasterType,
		Description:    in.Description,
		DateReported:   dated,
		Severity:       in.Severity,
		ReliefRequired: in.ReliefRequired,
		ReporterName:   in.ReporterName,
		Status:         in.Status,
		IsVerified:     fr.checkbox("is_verified"),
	}, ""
}
