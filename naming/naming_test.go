package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "noise substring stripped",
			in:   "1039843275_jennajuffuffles_cafe.png",
			want: "1039843275_cafe.png",
		},
		{
			name: "noise stripped case-insensitively",
			in:   "123_Mermaid_reef.png",
			want: "123_reef.png",
		},
		{
			name: "whitespace deleted",
			in:   "1_abc .png",
			want: "1_abc.png",
		},
		{
			name: "underscore runs collapsed",
			in:   "55__a___b.png",
			want: "55_a_b.png",
		},
		{
			name: "leading and trailing underscores trimmed",
			in:   "_99_x.png_",
			want: "99_x.png",
		},
		{
			name: "already canonical unchanged",
			in:   "1039843275_cafe.png",
			want: "1039843275_cafe.png",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"1039843275_jennajuffuffles cafe.png",
		"55__a___b .png",
		"_1_x_.png",
		"plain.png",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "Clean(Clean(%q))", in)
	}
}

func TestSref(t *testing.T) {
	assert.Equal(t, "1039843275", Sref("1039843275_cafe.png"))
	assert.Equal(t, "7", Sref("7.png"))
	assert.Equal(t, "", Sref("cafe_1039.png"))
}

func TestPrefixKey(t *testing.T) {
	assert.Equal(t, "1039843275", PrefixKey("1039843275_cafe.png"))
	assert.Equal(t, "1_a.png", PrefixKey("1_a.png"))
}

func TestShardDigit(t *testing.T) {
	assert.Equal(t, "1", ShardDigit("1039843275.webp"))
	assert.Equal(t, "0", ShardDigit("cafe.webp"))
	assert.Equal(t, "0", ShardDigit(""))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "1039843275_cafe.webp", OutputName("1039843275_jennajuffuffles_cafe .png"))
	assert.Equal(t, "7.webp", OutputName("7.png"))
}

func TestSrefOnly(t *testing.T) {
	got, ok := SrefOnly("1039843275_035facea-227d.png")
	assert.True(t, ok)
	assert.Equal(t, "1039843275.png", got)

	got, ok = SrefOnly("1071883336.webp")
	assert.True(t, ok)
	assert.Equal(t, "1071883336.webp", got)

	got, ok = SrefOnly("cafe.png")
	assert.False(t, ok)
	assert.Equal(t, "cafe.png", got)
}
