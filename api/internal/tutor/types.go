package tutor

// Request is one uploaded design screenshot.
type Request struct {
	Image    []byte
	MIME     string
	Language string
}

type Response struct {
	Tutorial            string   `json:"tutorial"`
	ComponentsDetected  []string `json:"components_detected"`
	EstimatedDifficulty string   `json:"estimated_difficulty"`
	EstimatedTime       string   `json:"estimated_time"`
}

// Record is what gets written to tutorial history after a successful analysis.
type Record struct {
	Language    string
	Engine      string
	Model       string
	ImageSHA256 string
	Response    Response
}
