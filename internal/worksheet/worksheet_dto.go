package worksheet

const dateLayout = "2006-01-02"

type CreateWorksheetRequest struct {
	Task  string  `json:"task" binding:"required,max=255"`
	Hours float64 `json:"hours" binding:"required,gte=0.5,lte=24"`
	Date  string  `json:"date" binding:"required,datetime=2006-01-02"`
}

type UpdateWorksheetRequest struct {
	Task  *string  `json:"task" binding:"omitempty,min=1,max=255"`
	Hours *float64 `json:"hours" binding:"omitempty,gte=0.5,lte=24"`
	Date  *string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// ListFilter narrows worksheet listings. Every field is optional.
type ListFilter struct {
	UID   string
	Email string
	Month string
	Year  int
}

type WorksheetResponse struct {
	ID             string  `json:"id"`
	UID            string  `json:"uid"`
	Email          string  `json:"email"`
	Task           string  `json:"task"`
	Hours          float64 `json:"hours"`
	Date           string  `json:"date"`
	Month          string  `json:"month"`
	Year           int     `json:"year"`
	SubmissionDate string  `json:"submission_date"`
}

func (r WorksheetResponse) PeriodMonth() string { return r.Month }
func (r WorksheetResponse) PeriodYear() int     { return r.Year }
