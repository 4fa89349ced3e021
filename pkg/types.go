package pkg

// DiagnosisResult is the enriched outcome of one diagnosis request.  It is
// built per request and never stored.
type DiagnosisResult struct {
	Disease     string   `json:"disease"`
	Confidence  int      `json:"confidence"`
	Description string   `json:"description"`
	Medications []string `json:"medications"`
	Precautions []string `json:"precautions"`
}

// PredictRequest is the body accepted by POST /predict.
type PredictRequest struct {
	Symptoms []string `json:"symptoms"`
}

// ErrorResponse carries a short human-readable message for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by the informational endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// SymptomsResponse lists the symptom identifiers the matcher understands.
type SymptomsResponse struct {
	Symptoms []string `json:"symptoms"`
}

// ConditionsResponse lists the condition labels a diagnosis can return.
type ConditionsResponse struct {
	Conditions []string `json:"conditions"`
}
