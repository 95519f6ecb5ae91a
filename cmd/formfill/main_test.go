package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pccclearclinic/form-filling-template/internal/prompt"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
)

const intakeJSON = `{
  "currentName": "Jordan Avery Smith",
  "changeOfName": true,
  "gender": "Male",
  "streetAddress": "123 Main St",
  "cityStateZip": "Portland, OR 97201",
  "phone": "503-555-0100",
  "snap": "100",
  "tanf": "",
  "ssi": "50"
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestFillDryRunWritesBothDocuments(t *testing.T) {
	dir := t.TempDir()
	intakePath := filepath.Join(dir, "intake.json")
	require.NoError(t, os.WriteFile(intakePath, []byte(intakeJSON), 0o644))

	out, err := run(t, "", "fill", "--dry-run", "--log-level", "error", "-o", dir, "-i", intakePath)
	require.NoError(t, err)
	assert.Contains(t, out, "feeWaiverFilled.pdf")
	assert.Contains(t, out, "statewidePacketFilled.pdf")

	data, err := os.ReadFile(filepath.Join(dir, "feeWaiverFilled.pdf"))
	require.NoError(t, err)
	values, err := pdfform.ReadValues(data)
	require.NoError(t, err)
	assert.Equal(t, "150.00", values.Text["Total monthly benefits received"])

	data, err = os.ReadFile(filepath.Join(dir, "statewidePacketFilled.pdf"))
	require.NoError(t, err)
	values, err = pdfform.ReadValues(data)
	require.NoError(t, err)
	assert.True(t, values.Checked["Male"])
	assert.True(t, values.Checked["Male_2"])
}

func TestFillStdinToStdout(t *testing.T) {
	out, err := run(t, intakeJSON, "fill", "--dry-run", "--log-level", "error", "--document", "feeWaiver", "--stdout")
	require.NoError(t, err)

	values, err := pdfform.ReadValues([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "Jordan Avery Smith", values.Text["Name"])
}

func TestFillRejectsStdoutForAll(t *testing.T) {
	_, err := run(t, intakeJSON, "fill", "--dry-run", "--stdout")
	require.Error(t, err)
}

func TestFillStrictNumbers(t *testing.T) {
	bad := strings.Replace(intakeJSON, `"snap": "100"`, `"snap": "lots"`, 1)
	_, err := run(t, bad, "fill", "--dry-run", "--log-level", "error", "--document", "feeWaiver", "--stdout", "--strict-numbers")
	require.Error(t, err)
}

func TestFieldsCommand(t *testing.T) {
	out, err := run(t, "", "fields", "statewidePacket", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "gender")
	assert.Contains(t, out, "{value}, {value}_2")

	out, err = run(t, "", "fields", "feeWaiver", "--catalogue", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Name printed")
	assert.Contains(t, out, "checkbox")

	_, err = run(t, "", "fields", "other")
	require.Error(t, err)
}

type cannedDriver struct{}

func (cannedDriver) Text(_ context.Context, q prompt.Question) (string, error) {
	switch q.Label {
	case "Current legal name":
		return "Jordan Avery Smith", nil
	case "Monthly SNAP (food stamps) benefits":
		return "20", nil
	}
	return "", nil
}

func (cannedDriver) YesNo(context.Context, prompt.Question) (bool, error) { return false, nil }

func (cannedDriver) Choose(_ context.Context, q prompt.Question) (string, error) {
	return q.Options[0], nil
}

func (cannedDriver) Note(context.Context, string) error { return nil }

func TestPromptCommand(t *testing.T) {
	previous := promptDriver
	promptDriver = func() prompt.Driver { return cannedDriver{} }
	t.Cleanup(func() { promptDriver = previous })

	dir := t.TempDir()
	out, err := run(t, "", "prompt", "--dry-run", "--log-level", "error", "-o", dir, "--document", "feeWaiver")
	require.NoError(t, err)
	assert.Contains(t, out, "feeWaiverFilled.pdf")

	data, err := os.ReadFile(filepath.Join(dir, "feeWaiverFilled.pdf"))
	require.NoError(t, err)
	values, err := pdfform.ReadValues(data)
	require.NoError(t, err)
	assert.Equal(t, "20.00", values.Text["Total monthly benefits received"])
	assert.True(t, values.Checked["Food Stamps SNAPSupplemental Nutrition Assistance Program"])
}
