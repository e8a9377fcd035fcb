package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CAPPLAN_DB", "CAPPLAN_SCENARIO", "CAPPLAN_USE_NET", "CAPPLAN_YEAR",
		"CAPPLAN_LOG_LEVEL", "CAPPLAN_LOG_FORMAT", "CAPPLAN_METRICS_FILE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	c, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ScenarioEffectiveBIS, c.DefaultScenario())
	assert.True(t, c.UseNet)
	assert.Equal(t, time.Now().Year(), c.Year)
	assert.Equal(t, "capplan.db", filepath.Base(c.DBPath))
	assert.Equal(t, logrus.InfoLevel, c.LogrusLevel())
	assert.Empty(t, c.MetricsFile)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CAPPLAN_DB", "/tmp/plan.db")
	t.Setenv("CAPPLAN_SCENARIO", "team_bis")
	t.Setenv("CAPPLAN_USE_NET", "false")
	t.Setenv("CAPPLAN_YEAR", "2027")
	t.Setenv("CAPPLAN_LOG_LEVEL", "debug")

	c, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plan.db", c.DBPath)
	assert.Equal(t, domain.ScenarioTeamBIS, c.DefaultScenario())
	assert.False(t, c.UseNet)
	assert.Equal(t, 2027, c.Year)
	assert.Equal(t, logrus.DebugLevel, c.LogrusLevel())
}

func TestLoad_EnvFileDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("CAPPLAN_YEAR=2030\nCAPPLAN_DB=/from/file.db\n"), 0o644))
	t.Setenv("CAPPLAN_DB", "/from/env.db")
	t.Cleanup(func() { os.Unsetenv("CAPPLAN_YEAR") })

	c, err := Load([]string{file, filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, 2030, c.Year)
	assert.Equal(t, "/from/env.db", c.DBPath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"scenario", "CAPPLAN_SCENARIO", "headcount"},
		{"year", "CAPPLAN_YEAR", "-1"},
		{"year not a number", "CAPPLAN_YEAR", "next"},
		{"log format", "CAPPLAN_LOG_FORMAT", "xml"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("CAPPLAN_DB", "/tmp/x.db")
			t.Setenv(tc.key, tc.value)
			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}

func TestLogrusLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"bogus":   logrus.InfoLevel,
		"silent":  logrus.PanicLevel,
		"SILENT":  logrus.PanicLevel,
		"warning": logrus.WarnLevel,
		"WARN":    logrus.WarnLevel,
		"fatal":   logrus.FatalLevel,
		"trace":   logrus.TraceLevel,
	}
	for raw, want := range cases {
		c := &Config{LogLevel: raw}
		assert.Equal(t, want, c.LogrusLevel(), "level %q", raw)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	c := &Config{LogLevel: "warn", LogFormat: "json"}
	var buf bytes.Buffer
	logger := c.NewLogger(&buf)

	logger.Info("hidden")
	logger.WithField("scope", "t1").Warn("unknown scope")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"scope":"t1"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
