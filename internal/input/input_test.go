// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

func TestManual(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   []string
	}{
		{"all filled", []string{"seo", "marketing", "ads", "email"}, []string{"seo", "marketing", "ads", "email"}},
		{"blanks dropped", []string{"seo", "", "   ", "ads"}, []string{"seo", "ads"}},
		{"entries kept as typed", []string{" SEO! "}, []string{" SEO! "}},
		{"all blank", []string{"", " ", "\t", ""}, nil},
		{"no fields", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Manual(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManualTooManyFields(t *testing.T) {
	_, err := Manual([]string{"a", "b", "c", "d", "e"})
	assert.ErrorIs(t, err, ErrTooManyFields)
}

func TestPaste(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"one per line", "seo\nmarketing\nads", []string{"seo", "marketing", "ads"}},
		{"trims and drops blanks", "  seo  \n\n\t\nmarketing\n", []string{"seo", "marketing"}},
		{"crlf", "seo\r\nmarketing\r\n", []string{"seo", "marketing"}},
		{"empty", "", nil},
		{"duplicates kept", "seo\nseo", []string{"seo", "seo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paste(tt.text))
		})
	}
}

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		data string
		opts CSVOptions
		want []string
	}{
		{
			name: "header skipped",
			data: "keyword,volume\nseo,100\nmarketing,50\n",
			want: []string{"seo", "marketing"},
		},
		{
			name: "empty cells dropped",
			data: "keyword,volume\nseo,100\n,20\n  ,30\nads,1\n",
			want: []string{"seo", "ads"},
		},
		{
			name: "no header",
			data: "seo\nmarketing\n",
			opts: CSVOptions{NoHeader: true},
			want: []string{"seo", "marketing"},
		},
		{
			name: "ragged rows",
			data: "kw\nseo,1,2\nads\n",
			want: []string{"seo", "ads"},
		},
		{
			name: "semicolon delimiter",
			data: "kw;vol\nseo;1\n",
			opts: CSVOptions{Comma: ';'},
			want: []string{"seo"},
		},
		{
			name: "header only",
			data: "keyword\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CSV(strings.NewReader(tt.data), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVNoColumns(t *testing.T) {
	_, err := CSV(strings.NewReader(""), CSVOptions{})
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = CSV(strings.NewReader("\n\n\n"), CSVOptions{})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestCSVMalformed(t *testing.T) {
	_, err := CSV(strings.NewReader("kw\n\"unterminated\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading csv")
}

func TestCollect(t *testing.T) {
	got, err := Collect(Source{Mode: types.ModePaste, Text: "a\nb"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = Collect(Source{Mode: types.ModeManual, Fields: []string{"a", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = Collect(Source{Mode: types.ModeCSV, CSV: strings.NewReader("h\nx\n")})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, got)

	got, err = Collect(Source{Mode: types.ModeCSV})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Collect(Source{Mode: "voice"})
	assert.ErrorIs(t, err, ErrUnknownMode)
}
