package types

// ExecuteRequest is the body of an HTTP execute call.
type ExecuteRequest struct {
	ToolID   string                 `json:"tool_id" binding:"required"`
	Params   map[string]interface{} `json:"params"`
	CallerID *string                `json:"caller_id,omitempty"`
}

// WSRequest is an inbound websocket frame.
type WSRequest struct {
	Type   string                 `json:"type"`
	ID     string                 `json:"id,omitempty"`
	ToolID string                 `json:"tool_id,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// WSResponse is an outbound websocket frame.
type WSResponse struct {
	Type    string                 `json:"type"`
	ID      string                 `json:"id,omitempty"`
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorInfo             `json:"error,omitempty"`
}
