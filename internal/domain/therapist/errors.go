package therapist

import "errors"

var ErrTherapistNotFound = errors.New("therapist not found")
