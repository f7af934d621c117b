package analysis

import "errors"

// Sentinel errors for the analyze pipeline. The HTTP layer maps each of
// these to the status code and error body the PWA client expects.
var (
	// ErrNoImage indicates the request carried no base64 image payload.
	ErrNoImage = errors.New("no image provided")

	// ErrMissingAPIKey indicates the provider credential is absent from the environment.
	ErrMissingAPIKey = errors.New("openai api key not configured")

	// ErrInvalidAPIKey indicates the provider rejected the configured credential.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("api quota exceeded")

	// ErrEmptyModelResponse indicates the completion carried no text content.
	ErrEmptyModelResponse = errors.New("no response from ai model")

	// ErrUnparsableResponse indicates no JSON object could be extracted from the model text.
	ErrUnparsableResponse = errors.New("failed to parse ai response")

	// ErrBadResponseShape indicates the extracted JSON is missing a risks array.
	ErrBadResponseShape = errors.New("invalid response format from ai")
)
