package types

// Category represents service categories
type Category string

const (
	CategoryFilesystem Category = "filesystem"
)

// Service represents a service definition advertised to callers
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a single named operation
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
}

// Context carries caller identity supplied by the transport layer.
// The dispatcher does not otherwise use it.
type Context struct {
	CallerID  *string `json:"caller_id,omitempty"`
	RequestID *string `json:"request_id,omitempty"`
}

// Result represents an operation outcome: success with a payload, or a
// typed failure. Never both.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorInfo             `json:"error,omitempty"`
}

// ErrorInfo carries the caller-facing error kind and message
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Success builds a successful result
func Success(data map[string]interface{}) *Result {
	return &Result{Success: true, Data: data}
}

// Failure builds a failed result with the given kind
func Failure(kind ErrorKind, message string) *Result {
	return &Result{Success: false, Error: &ErrorInfo{Kind: kind, Message: message}}
}
