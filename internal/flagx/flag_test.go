package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "separate value",
			args:  []string{"-d", "food.db", "-x", "1"},
			names: []string{"d"},
			want:  []string{"-d", "food.db"},
		},
		{
			name:  "inline value with double dash",
			args:  []string{"--tz=Europe/Riga", "-x", "1"},
			names: []string{"tz"},
			want:  []string{"--tz=Europe/Riga"},
		},
		{
			name:  "order preserved across names",
			args:  []string{"-cache", "64", "positional", "-l", "debug"},
			names: []string{"l", "cache"},
			want:  []string{"-cache", "64", "-l", "debug"},
		},
		{
			name:  "negative number is a value",
			args:  []string{"-busy", "-1"},
			names: []string{"busy"},
			want:  []string{"-busy", "-1"},
		},
		{
			name:  "next flag is not a value",
			args:  []string{"-d", "-l", "debug"},
			names: []string{"d", "l"},
			want:  []string{"-d", "-l", "debug"},
		},
		{
			name:  "trailing flag without value",
			args:  []string{"-d"},
			names: []string{"d"},
			want:  []string{"-d"},
		},
		{
			name:  "unknown flags and their values dropped",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"d"},
			want:  []string{},
		},
		{
			name:  "bare dashes ignored",
			args:  []string{"--", "-d", "a.db"},
			names: []string{"d"},
			want:  []string{"-d", "a.db"},
		},
		{
			name:  "empty args",
			args:  nil,
			names: []string{"d"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "short", args: []string{"-c", "/etc/nk.json"}, want: "/etc/nk.json"},
		{name: "long inline", args: []string{"--config=/etc/nk.json"}, want: "/etc/nk.json"},
		{name: "last wins", args: []string{"-c", "a.json", "-config", "b.json"}, want: "b.json"},
		{name: "other flags ignored", args: []string{"-d", "food.db", "-l", "debug"}, want: ""},
		{name: "none", args: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
