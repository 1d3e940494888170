package constants

type contextKey string

const (
	LoggerKey    contextKey = "logger"
	RequestStart contextKey = "requestStart"
	RequestIDKey contextKey = "requestID"
	ParamsKey    contextKey = "params"
)

const (
	LiveEndpoint  = "/health/live"
	ReadyEndpoint = "/health/ready"
)
