package main

// Exit codes returned by nug commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (bad config file, unreadable index)
	ExitDataError     = 3 // Data error (invalid rating, unknown episode or nugget)
	ExitProviderError = 4 // Embedding provider not reachable
	ExitModelNotFound = 5 // Embedding model not found
	ExitNotEmbedded   = 6 // Item has no stored embedding
)
