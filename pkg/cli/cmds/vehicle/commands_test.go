package vehicle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rclink/pkg/rc"
)

func TestParseMotor(t *testing.T) {
	testCases := []struct {
		args  []string
		motor rc.MotorPosition
	}{
		{nil, rc.All},
		{[]string{"fl"}, rc.FrontLeft},
		{[]string{"back-right"}, rc.BackRight},
		{[]string{"FRONT"}, rc.Front},
	}
	for _, tc := range testCases {
		motor, err := ParseMotor(tc.args)
		require.NoError(t, err)
		require.Equal(t, tc.motor, motor)
	}
	_, err := ParseMotor([]string{"middle"})
	require.Error(t, err)
}

func TestParseHex(t *testing.T) {
	data, err := ParseHex([]string{"0a", "F3"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0a, 0xf3}, data)
	data, err = ParseHex([]string{"0x0bff"})
	require.NoError(t, err)
	require.Equal(t, []byte{0x0b, 0xff}, data)

	for _, args := range [][]string{nil, {"0"}, {"zz"}} {
		_, err := ParseHex(args)
		require.Error(t, err, "%v", args)
	}
}

func TestParseWatchDuration(t *testing.T) {
	d, err := ParseWatchDuration(nil)
	require.NoError(t, err)
	require.Equal(t, defaultWatchDuration, d)
	d, err = ParseWatchDuration([]string{"0.5"})
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, d)
	_, err = ParseWatchDuration([]string{"-1"})
	require.Error(t, err)
}
