package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"leadgen/internal/common/logger"
	"leadgen/internal/common/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	text    string
	err     error
	prompts []Prompt
}

func (f *fakeGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.text, f.err
}

func newTestClient(t *testing.T, gen Generator) *Client {
	return NewClient(LoadConfig(), gen, logger.NewTestLogger(t), observability.Noop())
}

const bakeryReply = `Sure, here are bakeries in Lahore.
###START_BUSINESS
Name: Tasty Bakes
Address: 12 Main Boulevard, Gulberg, Lahore
Phone: 042-1234567
Rating: 4.5/5
Website: https://tastybakes.pk
Description: Cakes and pastries.
Latitude: 31.5204
Longitude: 74.3587
###END_BUSINESS
###START_BUSINESS
Name: Butt Sweets
Address: Anarkali, Lahore
Phone: N/A
Rating: 4.1/5
Website: N/A
Description: Traditional sweets.
Latitude: N/A
Longitude: N/A
###END_BUSINESS
###START_BUSINESS
Name: Half Written Bakery
Address: somewhere`

func TestSearch_ParsesWellFormedBlocksInOrder(t *testing.T) {
	gen := &fakeGenerator{text: bakeryReply}
	client := newTestClient(t, gen)

	got, err := client.Search(context.Background(), Request{Term: "Bakery", Location: "Lahore"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tasty Bakes", got[0].Name)
	assert.True(t, got[0].HasCoordinates())
	assert.Equal(t, "Butt Sweets", got[1].Name)
	assert.False(t, got[1].HasCoordinates())

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].Text, `Search for "Bakery" in "Lahore" (Pakistan).`)
}

func TestSearch_LoadMoreSendsExclusions(t *testing.T) {
	gen := &fakeGenerator{text: ""}
	client := newTestClient(t, gen)

	got, err := client.Search(context.Background(), Request{
		Term:         "Bakery",
		Location:     "Lahore",
		ExcludeNames: []string{"Tasty Bakes"},
	})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].Text, "DO NOT include them again: Tasty Bakes.")
}

func TestSearch_GeneratorFailureIsNotRetried(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	client := newTestClient(t, gen)

	_, err := client.Search(context.Background(), Request{Term: "Bakery", Location: "Lahore"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
	assert.Len(t, gen.prompts, 1)
}

func TestSearch_EmptyTerm(t *testing.T) {
	gen := &fakeGenerator{}
	client := newTestClient(t, gen)

	_, err := client.Search(context.Background(), Request{Term: "  ", Location: "Lahore"})
	assert.ErrorIs(t, err, ErrEmptyTerm)
	assert.Empty(t, gen.prompts)
}

func TestNewGenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), &Config{Model: "m"})
	assert.Error(t, err)
}
