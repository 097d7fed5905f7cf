package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress string
		dataDir    string
		logLevel   string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress: "localhost:8080",
				dataDir:    "data",
				logLevel:   "info",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS": "localhost:9999",
				"DATA_DIR":    "/var/lib/pcctracker",
				"LOG_LEVEL":   "debug",
			},
			flags: []string{},
			want: want{
				runAddress: "localhost:9999",
				dataDir:    "/var/lib/pcctracker",
				logLevel:   "debug",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-d", "/tmp/records",
				"-l", "warn",
			},
			want: want{
				runAddress: "localhost:7777",
				dataDir:    "/tmp/records",
				logLevel:   "warn",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS": "env:9000",
				"DATA_DIR":    "/env/data",
				"LOG_LEVEL":   "error",
			},
			flags: []string{
				"-a", "flag:8000",
				"-d", "/flag/data",
				"-l", "debug",
			},
			want: want{
				runAddress: "env:9000",
				dataDir:    "/env/data",
				logLevel:   "error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.dataDir, cfg.DataDir)
			assert.Equal(t, tt.want.logLevel, cfg.LogLevel)
		})
	}
}
