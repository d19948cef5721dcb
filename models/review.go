package models

// Status is the severity of a profile review outcome.
type Status string

const (
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusInfo    Status = "info"
	StatusDone    Status = "done"
)

// Outcome is one finding of the external profile review engine.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	DocsURL string `json:"docs_url"`
}

// Summary is the result of reviewing one GitHub profile.
type Summary struct {
	Username string    `json:"username"`
	Error    string    `json:"error,omitempty"`
	Outcomes []Outcome `json:"outcomes"`
}

// Candidate is an entry of the candidate profile list.
type Candidate struct {
	GitHubUsername string `json:"github_username"`
}
