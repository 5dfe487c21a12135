package parser_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskbuddy/internal/parser"
)

var now = time.Date(2025, time.March, 14, 9, 26, 0, 0, time.Local)

func TestParseTitleAndTime(t *testing.T) {
	in, err := parser.Parse("Buy milk / 18:00", now)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", in.Title)
	assert.Equal(t, "18:00", in.Time)
	assert.Equal(t, "2025-03-14", in.Date)
	assert.Empty(t, in.ProjectName)
}

func TestParseFullForm(t *testing.T) {
	in, err := parser.Parse("Buy milk / 18:00 / 20.07 / #home", now)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", in.Title)
	assert.Equal(t, "18:00", in.Time)
	assert.Equal(t, "2025-07-20", in.Date)
	assert.Equal(t, "home", in.ProjectName)
}

func TestParseDateAndProjectSwapped(t *testing.T) {
	in, err := parser.Parse("Buy milk / 18:00 / #home / 20.07", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-20", in.Date)
	assert.Equal(t, "home", in.ProjectName)
}

func TestParseTrimsFields(t *testing.T) {
	in, err := parser.Parse("  Buy milk  /  18:00  /  # home ", now)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", in.Title)
	assert.Equal(t, "home", in.ProjectName)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"no time":      "Buy milk",
		"bad time":     "Buy milk / 25:61",
		"unpadded":     "Buy milk / 8:00",
		"short minute": "Buy milk / 18:5",
		"bad date":     "Buy milk / 18:00 / 32.13",
		"stray field":  "Buy milk / 18:00 / whatever",
		"empty string": "",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parser.Parse(text, now)
			require.Error(t, err)
			assert.True(t, errors.Is(err, parser.ErrInvalidFormat))
		})
	}
}

func TestIsTaskDefinition(t *testing.T) {
	assert.True(t, parser.IsTaskDefinition("Buy milk / 18:00"))
	assert.True(t, parser.IsTaskDefinition("Buy milk / 18:00 / 20.07 / #home"))
	assert.False(t, parser.IsTaskDefinition("Buy milk"))
	assert.False(t, parser.IsTaskDefinition("проект: Дом"))
	assert.False(t, parser.IsTaskDefinition("завершить проект Дом"))
}
