package client

import (
	"fmt"
	"strings"

	"github.com/noah-isme/tapp-client/internal/view"
	"github.com/noah-isme/tapp-client/pkg/export"
)

// AssignmentsDataset formats denormalized assignments for export.
func AssignmentsDataset(assignments []view.Assignment) export.Dataset {
	headers := []string{"Last Name", "First Name", "UTORid", "Email", "Position Code", "Start Date", "End Date", "Hours", "Offer Status"}
	rows := make([]map[string]string, 0, len(assignments))
	for _, a := range assignments {
		row := map[string]string{
			"Last Name":     a.Applicant.LastName,
			"First Name":    a.Applicant.FirstName,
			"UTORid":        a.Applicant.UTORid,
			"Email":         a.Applicant.Email,
			"Position Code": a.Position.PositionCode,
			"Start Date":    strOrEmpty(a.StartDate),
			"End Date":      strOrEmpty(a.EndDate),
			"Hours":         formatHours(a.Hours),
		}
		if a.ActiveOfferStatus != nil {
			row["Offer Status"] = *a.ActiveOfferStatus
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: "Assignments", Headers: headers, Rows: rows}
}

// PositionsDataset formats denormalized positions for export.
func PositionsDataset(positions []view.Position) export.Dataset {
	headers := []string{"Position Code", "Position Title", "Hours/Assignment", "Start Date", "End Date", "Instructors", "Contract Template"}
	rows := make([]map[string]string, 0, len(positions))
	for _, p := range positions {
		names := make([]string, 0, len(p.Instructors))
		for _, inst := range p.Instructors {
			names = append(names, inst.LastName+", "+inst.FirstName)
		}
		row := map[string]string{
			"Position Code":     p.PositionCode,
			"Position Title":    p.PositionTitle,
			"Start Date":        strOrEmpty(p.StartDate),
			"End Date":          strOrEmpty(p.EndDate),
			"Instructors":       strings.Join(names, "; "),
			"Contract Template": p.ContractTemplate.TemplateName,
		}
		if p.HoursPerAssignment != nil {
			row["Hours/Assignment"] = formatHours(*p.HoursPerAssignment)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Title: "Positions", Headers: headers, Rows: rows}
}

// DdahsDataset formats denormalized DDAH forms for export.
func DdahsDataset(ddahs []view.Ddah) export.Dataset {
	headers := []string{"Last Name", "First Name", "Position Code", "Total Hours", "Status"}
	rows := make([]map[string]string, 0, len(ddahs))
	for _, d := range ddahs {
		rows = append(rows, map[string]string{
			"Last Name":     d.Assignment.Applicant.LastName,
			"First Name":    d.Assignment.Applicant.FirstName,
			"Position Code": d.Assignment.Position.PositionCode,
			"Total Hours":   formatHours(d.TotalHours),
			"Status":        string(d.Status),
		})
	}
	return export.Dataset{Title: "DDAH Forms", Headers: headers, Rows: rows}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatHours(h float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}
