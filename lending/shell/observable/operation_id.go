package observable

import "github.com/google/uuid"

// newOperationID returns a time-ordered id for one handler call.
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
