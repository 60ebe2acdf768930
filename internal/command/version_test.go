package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseToolVersion(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   string
		ok     bool
	}{
		{"docker", "Docker version 24.0.7, build afdd53b\n", "24.0.7", true},
		{"docker-compose", "docker-compose version 1.29.2, build 5becea4c\n", "1.29.2", true},
		{"compose plugin", "Docker Compose version v2.23.3\n", "2.23.3", true},
		{"podman", "podman version 4.9.3\n", "4.9.3", true},
		{"no patch", "Docker version 24.0, build x", "", false},
		{"garbage", "command not found", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseToolVersion(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionLess(t *testing.T) {
	assert.True(t, VersionLess("1.20.0", "1.29.2"))
	assert.False(t, VersionLess("1.29.2", "1.29.2"))
	assert.False(t, VersionLess("24.0.7", "20.10.0"))
	// String comparison, digit by digit.
	assert.True(t, VersionLess("20.10.0", "9.0.0"))
}
