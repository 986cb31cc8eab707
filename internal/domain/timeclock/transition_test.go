package timeclock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindPtr(k EventKind) *EventKind { return &k }

func TestValidateTransition_LegalPairs(t *testing.T) {
	legal := []struct {
		last      *EventKind
		candidate EventKind
	}{
		{nil, EventClockIn},
		{kindPtr(EventClockOut), EventClockIn},
		{kindPtr(EventClockIn), EventBreakStart},
		{kindPtr(EventBreakEnd), EventBreakStart},
		{kindPtr(EventBreakStart), EventBreakEnd},
		{kindPtr(EventClockIn), EventClockOut},
		{kindPtr(EventBreakEnd), EventClockOut},
	}

	for _, tc := range legal {
		assert.NoError(t, ValidateTransition(tc.last, tc.candidate),
			"last=%v candidate=%s", tc.last, tc.candidate)
	}
}

func TestValidateTransition_IllegalPairsExhaustive(t *testing.T) {
	legal := map[EventKind]map[EventKind]bool{
		EventClockIn:    {"": true, EventClockOut: true},
		EventBreakStart: {EventClockIn: true, EventBreakEnd: true},
		EventBreakEnd:   {EventBreakStart: true},
		EventClockOut:   {EventClockIn: true, EventBreakEnd: true},
	}

	priors := []*EventKind{nil, kindPtr(EventClockIn), kindPtr(EventClockOut),
		kindPtr(EventBreakStart), kindPtr(EventBreakEnd)}

	for _, last := range priors {
		for _, candidate := range AllEventKinds() {
			prior := EventKind("")
			if last != nil {
				prior = *last
			}
			err := ValidateTransition(last, candidate)
			if legal[candidate][prior] {
				assert.NoError(t, err, "last=%q candidate=%s", prior, candidate)
				continue
			}
			require.Error(t, err, "last=%q candidate=%s", prior, candidate)

			var invalid *InvalidTransitionError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, StatusAfter(last), invalid.Current)
			assert.Equal(t, candidate, invalid.Candidate)
		}
	}
}

func TestInvalidTransitionError_Messages(t *testing.T) {
	err := ValidateTransition(kindPtr(EventClockIn), EventClockIn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already clocked in")

	err = ValidateTransition(kindPtr(EventBreakStart), EventBreakStart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on break")

	err = ValidateTransition(nil, EventClockOut)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not clocked in")
}

func TestStatusAfter(t *testing.T) {
	assert.Equal(t, StatusNotClockedIn, StatusAfter(nil))
	assert.Equal(t, StatusClockedIn, StatusAfter(kindPtr(EventClockIn)))
	assert.Equal(t, StatusOnBreak, StatusAfter(kindPtr(EventBreakStart)))
	assert.Equal(t, StatusClockedIn, StatusAfter(kindPtr(EventBreakEnd)))
	assert.Equal(t, StatusNotClockedIn, StatusAfter(kindPtr(EventClockOut)))
}
