package config

import "context"

// SecretProvider abstracts the retrieval of secrets to support both AWS SSM
// Parameter Store (deployed environments) and plain environment variables
// (local development). The interface enables dependency injection in tests.
type SecretProvider interface {
	// GetParametersBatch retrieves multiple secret values, batching requests
	// to avoid throttling. The keys slice contains SSM parameter paths (or
	// equivalent identifiers) to resolve. Returns a map of key -> plaintext
	// value for all successfully resolved parameters.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
