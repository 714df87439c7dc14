package bomsign

// tool identity recorded in generated documents and signature blocks
const (
	Name    = "bomsign"
	Version = "0.1.0"
)
