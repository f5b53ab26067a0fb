package organizations

import "github.com/orgs-directory/backend/internal/models"

// Assemble projects an organization into its public view. Phones and activity ids keep load order.
func Assemble(o models.Organization) models.OrganizationView {
	v := models.OrganizationView{
		ID:          o.ID,
		Name:        o.Name,
		BuildingID:  o.BuildingID,
		Phones:      make([]string, 0, len(o.Phones)),
		ActivityIDs: make([]int64, 0, len(o.Activities)),
	}
	for _, p := range o.Phones {
		v.Phones = append(v.Phones, p.Number)
	}
	for _, a := range o.Activities {
		v.ActivityIDs = append(v.ActivityIDs, a.ID)
	}
	return v
}

// AssembleAll projects every organization, preserving order.
func AssembleAll(list []models.Organization) []models.OrganizationView {
	out := make([]models.OrganizationView, 0, len(list))
	for _, o := range list {
		out = append(out, Assemble(o))
	}
	return out
}
