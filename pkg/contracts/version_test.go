package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, runtime.GOARCH, info.Architecture)
}

func TestGetFullVersionString(t *testing.T) {
	s := GetFullVersionString()

	assert.True(t, strings.HasPrefix(s, GetVersionString()))
	assert.Contains(t, s, "data format: "+DataFormatVersion)
	assert.Contains(t, s, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersion_LinkerOverride(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "2.3.4"

	assert.Equal(t, "2.3.4", GetVersionInfo().Version)
	assert.Contains(t, GetFullVersionString(), "v2.3.4")
}
