package runtime

import "errors"

var (
	errNoProject      = errors.New("project store returned no project")
	errSubmitTimedOut = errors.New("submission timed out")
)
