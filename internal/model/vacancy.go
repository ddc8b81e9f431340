package model

// Vacancy is one row of the vacancies sheet, as shown to users on request.
type Vacancy struct {
	Title      string
	URL        string
	Location   string
	Department string
}
