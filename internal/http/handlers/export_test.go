package handlers

// Aliases exposing response shapes to the external test package.
type (
	GenerateResponse = generateResponse
	HistoryResponse  = historyResponse
)
