package dto

// OverviewEntry is a single accepted submission in the admin overview.
type OverviewEntry struct {
	StudentName string `json:"studentName"`
	CompanyName string `json:"companyName"`
}

// Overview groups accepted submissions by department name, then class name.
// Missing department/class chains fall under the "Unknown Department" and
// "Unknown Class" keys.
type Overview map[string]map[string][]OverviewEntry
