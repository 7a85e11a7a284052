package platform

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallCandidates(t *testing.T) {
	tests := []struct {
		name     string
		platform *Platform
		editor   [3]string
		want     []string
	}{
		{
			name:     "darwin uses alias then name",
			platform: Darwin("/Users/dev"),
			editor:   [3]string{"VS Code", "Visual Studio Code", "code"},
			want: []string{
				"/Applications/Visual Studio Code.app",
				"/Applications/VS Code.app",
				"/Users/dev/Applications/Visual Studio Code.app",
				"/Users/dev/Applications/VS Code.app",
			},
		},
		{
			name:     "windows program dirs",
			platform: Windows(`C:\Users\dev`),
			editor:   [3]string{"Typora", "", "typora"},
			want: []string{
				`C:\Program Files\Typora`,
				`C:\Program Files (x86)\Typora`,
				`C:\Users\dev\AppData\Local\Typora`,
				`C:\Users\dev\AppData\Local\Programs\Typora`,
			},
		},
		{
			name:     "linux opt and bin roots",
			platform: Linux("/home/dev"),
			editor:   [3]string{"Zed", "", "zed"},
			want: []string{
				"/opt/Zed",
				"/usr/bin/zed",
				"/usr/local/bin/zed",
				"/snap/bin/zed",
				"/home/dev/.local/bin/zed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.platform.InstallCandidates(tt.editor[0], tt.editor[1], tt.editor[2])
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand(t *testing.T) {
	assert.Equal(t, "/home/dev/.local/bin", Linux("/home/dev").Expand("~/.local/bin"))
	assert.Equal(t, `C:\Users\dev\AppData\Local`, Windows(`C:\Users\dev`).Expand(`~\AppData\Local`))
	assert.Equal(t, "/opt", Linux("/home/dev").Expand("/opt"))
	assert.Equal(t, "/home/dev", Linux("/home/dev").Expand("~"))
}

func TestWrapShell(t *testing.T) {
	cmd, args := Windows(`C:\Users\dev`).WrapShell("code", []string{`C:\src\app`})
	assert.Equal(t, "cmd", cmd)
	assert.Equal(t, []string{"/c", "code", `C:\src\app`}, args)

	cmd, args = Linux("/home/dev").WrapShell("code", []string{"/src/app"})
	assert.Equal(t, "code", cmd)
	assert.Equal(t, []string{"/src/app"}, args)
}

func TestCapabilities(t *testing.T) {
	assert.True(t, Darwin("/Users/dev").SupportsBundles())
	assert.False(t, Linux("/home/dev").SupportsBundles())
	assert.False(t, Windows(`C:\Users\dev`).SupportsBundles())
	assert.Equal(t, "where", Windows(`C:\Users\dev`).CheckCommand)
	assert.Equal(t, "which", Darwin("/Users/dev").CheckCommand)
}

func TestCurrent(t *testing.T) {
	p := Current()
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		assert.Equal(t, runtime.GOOS, p.OS)
	} else {
		assert.Equal(t, "linux", p.OS)
	}
	assert.NotEmpty(t, p.Home)
}
