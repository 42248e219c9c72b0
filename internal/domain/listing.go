package domain

// Column names of the listing tables, shared by the raw and cleaned files.
const (
	ListingYearColumn    = "Year"
	ListingTitleColumn   = "Number_1_Release"
	ListingWeekendColumn = "Weekend_Number"
)

// ListingRecord is one scraped row of a weekend box-office chart.
// Empty strings mark cells that had no link text.
type ListingRecord struct {
	Year             int
	NumberOneRelease string
	WeekendNumber    string
}

// ListingColumns returns the header written for listing tables.
func ListingColumns() []string {
	return []string{ListingYearColumn, ListingTitleColumn, ListingWeekendColumn}
}
