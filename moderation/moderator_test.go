package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T) Moderator {
	t.Helper()
	moderator, err := NewModerator([]string{"darn", "heck"}, '*')
	require.NoError(t, err)
	return moderator
}

func TestModerator_Censor_Clean_Text_Is_Untouched(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("hello everyone")

	req.Equal("hello everyone", censored)
	req.Empty(found)
}

func TestModerator_Censor_Masks_Plain_Match(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("oh darn it")

	req.Equal("oh **** it", censored)
	req.Equal([]string{"darn"}, found)
}

func TestModerator_Censor_Is_Case_Insensitive(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("oh DaRn it")

	req.Equal("oh **** it", censored)
	req.Equal([]string{"darn"}, found)
}

func TestModerator_Censor_Catches_Decorated_Spelling(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	// Punctuation inside the word does not hide it
	censored, found := moderator.Censor("oh d.a.r.n it")

	req.Equal([]string{"darn"}, found)
	req.NotContains(censored, "d.a.r.n")
}

func TestModerator_Censor_Multiple_Words(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("darn this heck")

	req.Equal("**** this ****", censored)
	req.Len(found, 2)
	req.Contains(found, "darn")
	req.Contains(found, "heck")
}

func TestModerator_Censor_Punctuation_Only_Text(t *testing.T) {
	req := require.New(t)
	moderator := newTestModerator(t)

	censored, found := moderator.Censor("!!! ...")

	req.Equal("!!! ...", censored)
	req.Empty(found)
}

func TestLoadWords_Embedded_Lists_Are_Not_Empty(t *testing.T) {
	req := require.New(t)

	words, err := LoadWords()

	req.NoError(err)
	req.NotEmpty(words)
	req.Contains(words, "darn")
}
