package response

type WebhookAcceptedResponse struct {
	Success     bool   `json:"success"`
	ProcessedAt string `json:"processedAt"`
}
