package monitoring

// Byte direction labels, relative to the child process.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

// Status labels
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

func statusLabel(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
