package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "photo.png"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag followed by another flag keeps no value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-r", "3", "-r", "5"},
			allowedFlags: []string{"-r"},
			want:         []string{"-r", "3", "-r", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestPositional(t *testing.T) {
	valueFlags := []string{"-a", "-k", "-c"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "files after flags",
			args: []string{"-a", "http://host", "-k", "tok", "a.png", "b.pdf"},
			want: []string{"a.png", "b.pdf"},
		},
		{
			name: "files interleaved with flags",
			args: []string{"a.png", "-a=http://host", "b.pdf", "-c", "cfg.json"},
			want: []string{"a.png", "b.pdf"},
		},
		{
			name: "unknown flag is boolean",
			args: []string{"-v", "a.png"},
			want: []string{"a.png"},
		},
		{
			name: "double dash ends flags",
			args: []string{"-a", "x", "--", "-weird-name.png"},
			want: []string{"-weird-name.png"},
		},
		{
			name: "stdin dash is positional",
			args: []string{"-"},
			want: []string{"-"},
		},
		{
			name: "nothing",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Positional(tt.args, valueFlags))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/path/long.json", "file.png"}
		assert.Equal(t, "/path/long.json", JsonConfigFlags())
	})

	t.Run("absent", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "1"}
		assert.Empty(t, JsonConfigFlags())
	})
}
