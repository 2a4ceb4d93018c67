package bass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	// Messages follow the engine's own documentation wording so log lines
	// stay recognisable to people who know the native API.
	assert.Equal(t, "the output is paused or stopped", ErrOutputIsPausedOrStopped.Error())
	assert.Equal(t, "the file couldn't be opened", ErrFileCouldNotBeOpened.Error())
	assert.Equal(t, "internet connection isn't available", ErrNoInternetConnection.Error())
}

func TestReservedErrorsAreDistinct(t *testing.T) {
	// No call site produces these two today, but applications match on
	// the full set, so they must stay representable and distinguishable.
	assert.NotErrorIs(t, ErrStreamIsNotPlayable, ErrCouldNotInitialize3DSupport)
	assert.NotErrorIs(t, ErrStreamIsNotPlayable, ErrStreamIsNotPlaying)
}
