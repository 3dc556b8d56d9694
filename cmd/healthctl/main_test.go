package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspections = `Plant inspection log,,,,,,,,
Generated by the maintenance team,,,,,,,,
AREA,SYSTEM,EQUIPMENT DESCRIPTION,DATE,CONDITION MONITORING SCORE,VIBRATION,OIL ANALYSIS,TEMPERATURE,OTHER INSPECTION
AreaX,SysA,EqA,01/01/2024,3,,,,
AreaX,SysA,EqA,02/01/2024,,1,,,
AreaX,SysB,EqB,02/01/2024,,,,good,
`

func writeData(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inspections.csv")
	require.NoError(t, os.WriteFile(path, []byte(inspections), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KAFKA_BROKERS", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReport(t *testing.T) {
	out, err := run(t, "report", "-f", writeData(t), "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "| AreaX | 1 | RED | 2 |")
	assert.Contains(t, out, "| AreaX | SysA | 1 | RED | 2 |")
	assert.Contains(t, out, "| AreaX | SysB | 3 | GREEN | 1 |")
}

func TestReport_EmptyAllowSet(t *testing.T) {
	out, err := run(t, "report", "-f", writeData(t), "--area=")
	require.NoError(t, err)
	assert.Equal(t, "No records match the selected filters.\n", out)
}

func TestReport_DateRange(t *testing.T) {
	out, err := run(t, "report", "-f", writeData(t), "--format", "md", "--to", "01-01-2024")
	require.NoError(t, err)
	assert.Contains(t, out, "| AreaX | 3 | GREEN | 1 |")
}

func TestReport_MissingFile(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	_, err := run(t, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data file")
}

func TestDrilldown(t *testing.T) {
	path := writeData(t)

	out, err := run(t, "drilldown", "-f", path, "--name", "EqA", "--date", "2024-01-01", "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "| Score | 3 |")

	out, err = run(t, "drilldown", "-f", path, "--name", "EqA", "--date", "2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "No data for EqA on 05-01-2024.\n", out)

	_, err = run(t, "drilldown", "-f", path, "--name", "EqA")
	assert.Error(t, err, "date is required")
}

func TestTrend(t *testing.T) {
	out, err := run(t, "trend", "-f", writeData(t), "--level", "system", "--name", "SysA", "--format", "md")
	require.NoError(t, err)

	assert.Contains(t, out, "| 01-01-2024 | EqA | 3 | GREEN |")
	assert.Contains(t, out, "| 02-01-2024 | EqA | 1 | RED |")
}

func TestExport(t *testing.T) {
	path := writeData(t)

	out, err := run(t, "export", "-f", path, "--table", "areas")
	require.NoError(t, err)
	assert.Equal(t, "AREA,SCORE,STATUS\nAreaX,1,RED\n", out)

	dest := filepath.Join(t.TempDir(), "systems.csv")
	_, err = run(t, "export", "-f", path, "--table", "systems", "-o", dest)
	require.NoError(t, err)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "AREA,SYSTEM,SCORE,STATUS\nAreaX,SysA,1,RED\nAreaX,SysB,3,GREEN\n", string(data))

	_, err = run(t, "export", "-f", path, "--table", "equipment")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", "-f", writeData(t), "--color=false")
	require.NoError(t, err)
	assert.Contains(t, out, "All validations passed.")
	assert.Equal(t, 7, strings.Count(out, "PASS"))
}

func TestPublish_NoBrokers(t *testing.T) {
	_, err := run(t, "publish", "-f", writeData(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Kafka brokers")
}
