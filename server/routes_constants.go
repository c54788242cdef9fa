package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Start a new download request, returns the consent URL and request ID
	RouteAuth = "/bizcuit_auth"

	// Consent redirect target registered with Bizcuit (carries code and state)
	RouteAuthResponse = "/bizcuit_auth_response"

	// Deliver the bank transactions, requires request ID and pincode
	RouteTransactions = "/bizcuit_transactions"
)
