package telegram

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1.25", FormatAmount(decimal.NewFromFloat(1.25), "$"))
	assert.Equal(t, "$0.50", FormatAmount(decimal.NewFromFloat(0.5), "$"))
	assert.Equal(t, "€10.00", FormatAmount(decimal.NewFromInt(10), "€"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-5 * time.Second, "0s"},
		{45 * time.Second, "45s"},
		{60 * time.Second, "1m"},
		{90 * time.Second, "1m 30s"},
		{180 * time.Second, "3m"},
		{time.Second * 59, "59s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitMessage("short", 10))

	parts := SplitMessage("aaaaa\nbbbbb\nccccc", 8)
	assert.True(t, len(parts) > 1)
	for _, part := range parts {
		assert.LessOrEqual(t, len([]rune(part)), 8)
	}
}

func TestFixMarkdown(t *testing.T) {
	assert.Equal(t, "plain", FixMarkdown("plain"))
	assert.Equal(t, "`code`", FixMarkdown("`code"))
	assert.Equal(t, "```\nblock\n```", FixMarkdown("```\nblock"))
}
