package patch

import "testing"

func TestChannelKey(t *testing.T) {
	tests := []struct {
		channel int
		want    string
	}{
		{0, "channel001"},
		{4, "channel005"},
		{99, "channel100"},
		{511, "channel512"},
	}

	for _, tt := range tests {
		if got := ChannelKey(tt.channel); got != tt.want {
			t.Errorf("ChannelKey(%d) = %q, want %q", tt.channel, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		isNum bool
	}{
		{"255", 255, true},
		{"0", 0, true},
		{"-12.5", -12.5, true},
		{"1e2", 100, true},
		{"scale.channel2", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.isNum {
			t.Errorf("ParseNumber(%q) ok = %v, want %v", tt.in, ok, tt.isNum)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseNumber(%q) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
