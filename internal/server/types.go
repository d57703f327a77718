package server

// Output formats accepted by /fib/{k}.
const (
	FormatDecimal = "decimal"
	FormatHex     = "hex"
	FormatLimbs   = "limbs"
	FormatBytes   = "bytes"
)

// FibResponse is the JSON body of a successful /fib/{k} request.
type FibResponse struct {
	// K is the requested index.
	K int64 `json:"k"`
	// Algorithm names the generator that produced the value.
	Algorithm string `json:"algorithm"`
	// Format is the representation of Result or Limbs.
	Format string `json:"format"`
	// Result is the decimal or hexadecimal rendering. Empty for limbs.
	Result string `json:"result,omitempty"`
	// Limbs is the value least significant limb first, for the limbs format.
	Limbs []uint64 `json:"limbs,omitempty"`
	// Bits is the bit length of F(k).
	Bits int `json:"bits"`
	// ElapsedNs is the time spent inside the generator.
	ElapsedNs int64 `json:"elapsed_ns"`
	// Duration is the wall time of the whole request.
	Duration string `json:"duration"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
	// RequestID echoes the request identifier.
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Algorithm string `json:"algorithm"`
	MaxIndex  int64  `json:"max_index"`
}

// AlgorithmsResponse is the JSON body of /algorithms.
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
	Active     string   `json:"active"`
}
