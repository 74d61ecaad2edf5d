package aggregator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExerciseKeyNormalization(t *testing.T) {
	tests := []struct {
		name     string
		bodyPart string
		exercise string
		want     string
	}{
		{"simple", "Legs", "Squat", "legs_squat"},
		{"mixed case with space", "Legs", "Back Squat", "legs_back_squat"},
		{"already normalized", "legs", "back squat", "legs_back_squat"},
		{"upper case", "CHEST", "BENCH PRESS", "chest_bench_press"},
		{"multiple spaces", "Back", "Bent Over Row", "back_bent_over_row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExerciseKey(tt.bodyPart, tt.exercise))
		})
	}
}

func TestExerciseKeyCaseVariantsCollide(t *testing.T) {
	// "Legs"/"Back Squat" and "legs"/"back squat" are the same movement and
	// must share one stats sub-record.
	require.Equal(t,
		ExerciseKey("Legs", "Back Squat"),
		ExerciseKey("legs", "back squat"),
	)
}

func TestValidDate(t *testing.T) {
	require.True(t, ValidDate("2024-01-01"))
	require.True(t, ValidDate("1970-01-01"))
	require.False(t, ValidDate("2024-1-1"))
	require.False(t, ValidDate("01-02-2024"))
	require.False(t, ValidDate("2024-02-30"))
	require.False(t, ValidDate(""))
}
