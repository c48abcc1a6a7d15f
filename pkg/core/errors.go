package core

// InvalidParameterError reports a tuning parameter outside its documented
// bound. Configuration setters return it eagerly, before any iteration runs.
// Use errors.Is(err, &InvalidParameterError{}) to check for this error.
type InvalidParameterError struct {
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter: " + e.Reason
}

func (e *InvalidParameterError) Is(target error) bool {
	_, ok := target.(*InvalidParameterError)
	return ok
}

// NotInitializedError reports a required input missing before use, such as a
// search direction that was never set.
type NotInitializedError struct {
	What string
}

func (e *NotInitializedError) Error() string {
	return e.What + " not initialized"
}

func (e *NotInitializedError) Is(target error) bool {
	_, ok := target.(*NotInitializedError)
	return ok
}

// NotImplementedError reports an evaluation the wrapped objective does not
// provide.
type NotImplementedError struct {
	Op string
}

func (e *NotImplementedError) Error() string {
	return e.Op + " not implemented by the objective"
}

func (e *NotImplementedError) Is(target error) bool {
	_, ok := target.(*NotImplementedError)
	return ok
}

// PotentialBugError reports a violated internal invariant. It signals a
// defect in an algorithm's case analysis, not a recoverable condition.
type PotentialBugError struct {
	Reason string
}

func (e *PotentialBugError) Error() string {
	return "potential bug: " + e.Reason
}

func (e *PotentialBugError) Is(target error) bool {
	_, ok := target.(*PotentialBugError)
	return ok
}
