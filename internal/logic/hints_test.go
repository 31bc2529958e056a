package logic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esportle/esportle-api/internal/models"
)

func hintsFixture() *memRecords {
	m := fakerFixture()
	m.addPlayer("keria", "Keria", []string{"support"}, []string{"South Korea"})
	m.addPlayer("bengi", "Bengi", []string{"jungle"}, []string{"South Korea"})
	m.addTournament("lfl/2016/spring", "LFL Spring 2016", 2, "2016-01-10", "2016-03-01")
	m.addResult("lck/2023/summer", "keria", "t1", "3", 80)
	m.addResult("lck/2015/spring", "bengi", "skt", "1", 100)
	m.addResult("lfl/2016/spring", "faker", "t1", "1", 100)
	return m
}

func TestGenerateHints(t *testing.T) {
	tests := []struct {
		name string
		pick int
		want models.Hints
	}{
		{
			name: "first draw",
			pick: 0,
			want: models.Hints{Tournament: "LCK Spring 2015", Team: "T1", Teammate: "Bengi"},
		},
		{
			name: "last draw",
			pick: 1,
			want: models.Hints{Tournament: "LCK Summer 2023", Team: "SK Telecom T1", Teammate: "Keria"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewHintGenerator(hintsFixture(), fixedIntN(tt.pick))
			got, err := g.GenerateHints(context.Background(), "faker")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateHints_WithholdsMostRecent(t *testing.T) {
	m := hintsFixture()
	for i := 0; i < 4; i++ {
		hints, err := NewHintGenerator(m, fixedIntN(i)).GenerateHints(context.Background(), "faker")
		require.NoError(t, err)
		assert.NotEqual(t, "Worlds 2023", hints.Tournament)
	}
}

func TestGenerateHints_SingleRankedResult(t *testing.T) {
	m := newMemRecords()
	m.addPlayer("solo", "Solo", []string{"top"}, nil)
	m.addTeam("c9", "Cloud9")
	m.addTournament("lcs/2024/summer", "LCS Summer 2024", 1, "2024-06-15", "2024-09-08")
	m.addResult("lcs/2024/summer", "solo", "c9", "3", 80)

	hints, err := NewHintGenerator(m, nil).GenerateHints(context.Background(), "solo")
	require.NoError(t, err)
	assert.Equal(t, "LCS Summer 2024", hints.Tournament)
	assert.Equal(t, "Cloud9", hints.Team)
	assert.Empty(t, hints.Teammate, "no one else played for the team")
}

func TestGenerateHints_TeammateFallsBackToHintTeam(t *testing.T) {
	m := newMemRecords()
	m.addPlayer("a", "A", []string{"top"}, nil)
	m.addPlayer("b", "B", []string{"mid"}, nil)
	m.addTeam("c9", "Cloud9")
	m.addTournament("lcs/2024/summer", "LCS Summer 2024", 1, "2024-06-15", "2024-09-08")
	m.addTournament("lcs/2024/spring", "LCS Spring 2024", 1, "2024-01-20", "2024-04-07")
	m.addTournament("lcs/2023/summer", "LCS Summer 2023", 1, "2023-06-01", "2023-08-20")
	m.addResult("lcs/2024/summer", "a", "c9", "1", 100)
	m.addResult("lcs/2024/spring", "a", "c9", "2", 90)
	m.addResult("lcs/2023/summer", "a", "c9", "3", 80)
	m.addResult("lcs/2023/summer", "b", "c9", "3", 80)

	hints, err := NewHintGenerator(m, fixedIntN(0)).GenerateHints(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Cloud9", hints.Team)
	assert.Equal(t, "B", hints.Teammate)
}

func TestGenerateHints_InsufficientHistory(t *testing.T) {
	m := newMemRecords()
	m.addPlayer("rookie", "Rookie", []string{"mid"}, nil)
	m.addTournament("lfl/2024/spring", "LFL Spring 2024", 2, "2024-01-15", "2024-04-01")
	m.addResult("lfl/2024/spring", "rookie", "kc", "1", 100)

	_, err := NewHintGenerator(m, nil).GenerateHints(context.Background(), "rookie")
	assert.True(t, errors.Is(err, ErrInsufficientHistory))

	_, err = NewHintGenerator(m, nil).GenerateHints(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrInsufficientHistory))
}
