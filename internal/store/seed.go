package store

import (
	"context"
	"fmt"
	"time"

	"docdesk/internal/catalog"
	"docdesk/internal/model"
)

var sampleTitles = []string{
	"Annual Budget Memo",
	"Records Retention Schedule",
	"Transcript Request Policy",
	"Procurement Order",
	"Quarterly Audit Report",
	"Staff Onboarding Letter",
	"Data Privacy Notice",
	"Facilities Maintenance Order",
	"Board Meeting Minutes",
	"Payroll Adjustment Memo",
	"Enrollment Statistics Report",
	"Vendor Contract Letter",
}

var sampleUsers = []model.User{
	{ID: "usr-admin001", Name: "Ada Admin", Email: "ada@docdesk.local", Role: "admin", Status: "active"},
	{ID: "usr-staff001", Name: "Sam Staff", Email: "sam@docdesk.local", Role: "staff", Status: "active"},
	{ID: "usr-staff002", Name: "Rita Records", Email: "rita@docdesk.local", Role: "staff", Status: "inactive"},
	{ID: "usr-view0001", Name: "Victor Viewer", Email: "victor@docdesk.local", Role: "viewer", Status: "active"},
	{ID: "usr-view0002", Name: "Sue Suspended", Email: "sue@docdesk.local", Role: "viewer", Status: "suspended"},
}

// SampleDocuments builds a fixed data set spread over the catalog's options, dated
// backwards one week at a time from now.
func SampleDocuments(c *catalog.Catalog, now time.Time) []model.Document {
	var out []model.Document
	for i, title := range sampleTitles {
		d := model.Document{
			ID:        fmt.Sprintf("doc-sample%02d", i+1),
			Title:     title,
			Summary:   fmt.Sprintf("# %s\n\nSample document %d.", title, i+1),
			Status:    c.DocumentStatuses[i%len(c.DocumentStatuses)].ID,
			Date:      now.AddDate(0, 0, -7*i),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if len(c.Offices) > 0 {
			d.Office = c.Offices[i%len(c.Offices)].Value
		}
		if len(c.Classifications) > 0 {
			d.Classification = c.Classifications[i%len(c.Classifications)].Value
		}
		if len(c.Types) > 0 {
			d.Type = c.Types[i%len(c.Types)].Value
		}
		out = append(out, d)
	}
	return out
}

func SampleUsers(now time.Time) []model.User {
	out := make([]model.User, len(sampleUsers))
	for i, u := range sampleUsers {
		u.CreatedAt = now.AddDate(0, -i, 0)
		out[i] = u
	}
	return out
}

// Seed writes the sample documents and users.
func (s Store) Seed(ctx context.Context, c *catalog.Catalog, now time.Time) error {
	for _, d := range SampleDocuments(c, now) {
		if err := s.PutDocument(ctx, d); err != nil {
			return err
		}
	}
	for _, u := range SampleUsers(now) {
		if err := s.PutUser(ctx, u); err != nil {
			return err
		}
	}
	return nil
}
