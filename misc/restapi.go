package misc

// StatusOK is the success discriminator the mobile clients check.
const StatusOK = "OK"

// Envelope is the uniform response body: {"status": "OK", "data": ...} on
// success, {"status": "<code>", "error": "<message>"} on failure.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func Ok(data interface{}) *Envelope {
	return &Envelope{Status: StatusOK, Data: data}
}
