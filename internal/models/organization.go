package models

// Organization is a business located in one building, tagged with activities and reachable by phones.
// Phones and Activities are filled by the repository in load order.
type Organization struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	BuildingID int64      `json:"building_id"`
	Phones     []Phone    `json:"phones"`
	Activities []Activity `json:"activities"`
}

// Phone is a contact number owned by exactly one organization.
type Phone struct {
	ID             int64  `json:"id"`
	Number         string `json:"number"`
	OrganizationID int64  `json:"organization_id"`
}

// OrganizationView is the public read representation of an organization.
type OrganizationView struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	BuildingID  int64    `json:"building_id"`
	Phones      []string `json:"phones"`
	ActivityIDs []int64  `json:"activity_ids"`
}

// SearchResult is a page of organizations plus the number of matches before pagination.
type SearchResult struct {
	Results []OrganizationView `json:"results"`
	Total   int                `json:"total"`
}
