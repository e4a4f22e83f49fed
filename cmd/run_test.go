package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("ranking", pflag.ContinueOnError)
	flags.Float64P("min-score", "m", 0, "")
	flags.IntP("limit", "l", 0, "")
	return flags
}

func TestRankingParams(t *testing.T) {
	t.Parallel()

	match := &MatchConfig{MinScore: 50, Limit: 5}

	t.Run("config fills unset flags", func(t *testing.T) {
		t.Parallel()
		minScore, limit := rankingParams(rankingFlags(), match)
		assert.Equal(t, 50.0, minScore)
		assert.Equal(t, 5, limit)
	})

	t.Run("no config keeps flag defaults", func(t *testing.T) {
		t.Parallel()
		minScore, limit := rankingParams(rankingFlags(), nil)
		assert.Equal(t, 0.0, minScore)
		assert.Equal(t, 0, limit)
	})

	t.Run("explicit flag wins over config", func(t *testing.T) {
		t.Parallel()
		flags := rankingFlags()
		require.NoError(t, flags.Set("min-score", "75"))
		minScore, limit := rankingParams(flags, match)
		assert.Equal(t, 75.0, minScore)
		assert.Equal(t, 5, limit)
	})

	t.Run("explicit zero wins over config", func(t *testing.T) {
		t.Parallel()
		flags := rankingFlags()
		require.NoError(t, flags.Set("min-score", "0"))
		require.NoError(t, flags.Set("limit", "0"))
		minScore, limit := rankingParams(flags, match)
		assert.Equal(t, 0.0, minScore)
		assert.Equal(t, 0, limit)
	})
}
