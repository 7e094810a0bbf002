package config

// Runtime identifies the environment the process is deployed into.
type Runtime string

const (
	// RuntimeLocal is a developer machine or a regular server.
	RuntimeLocal Runtime = "local"
	// RuntimeServerless is a constrained function runtime such as AWS Lambda.
	RuntimeServerless Runtime = "serverless"
)

// DetectRuntime reports the runtime through getenv so callers can simulate
// either environment. It reads the environment on every call.
func DetectRuntime(getenv func(string) string) Runtime {
	if getenv != nil && getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return RuntimeServerless
	}
	return RuntimeLocal
}
