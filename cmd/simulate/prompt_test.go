package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositiveInt_Reprompts(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("abc\n-2\n0\n 3 \n"), &out)

	n, err := p.positiveInt("Items: ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 4, strings.Count(out.String(), "Items: "))
	assert.Equal(t, 3, strings.Count(out.String(), "greater than zero"))
}

func TestPositiveInt_EOF(t *testing.T) {
	p := newPrompter(strings.NewReader("nope\n"), &bytes.Buffer{})

	_, err := p.positiveInt("Items: ")
	assert.True(t, isEOF(err))
}

func TestLabels(t *testing.T) {
	p := newPrompter(strings.NewReader("rice\n\n  milk  \n"), &bytes.Buffer{})

	labels, err := p.labels(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"rice", "item-2", "milk"}, labels)
}
