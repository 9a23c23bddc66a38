package hubspot

type ContactProperties struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstname"`
	LastName       string `json:"lastname"`
	Company        string `json:"company"`
	JobTitle       string `json:"jobtitle"`
	Website        string `json:"website"`
	City           string `json:"city"`
	Description    string `json:"description"`
	LifecycleStage string `json:"lifecyclestage,omitempty"`
}

type createContactRequest struct {
	Properties ContactProperties `json:"properties"`
}

type contactResponse struct {
	ID         string `json:"id"`
	Properties struct {
		LifecycleStage string `json:"lifecyclestage"`
	} `json:"properties"`
}

type errorResponse struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}
