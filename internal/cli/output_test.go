package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success(&HashResult{Hashes: []QueryHash{{Name: "sum", Hash: "abc"}}})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Error("C003", "unbound variable", []string{"query.bad"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "C003", resp.Error.Code)
	assert.Equal(t, "unbound variable", resp.Error.Message)
	assert.Equal(t, []any{"query.bad"}, resp.Error.Details)
}

func TestOutputFormatter_TextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(&HashResult{Hashes: []QueryHash{{Name: "sum", Hash: "abc"}}}))
	assert.Equal(t, "abc  sum\n", buf.String())
}

func TestOutputFormatter_TextPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("saved"))
	assert.Equal(t, "saved\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"quiet", false, "Error [E009]: query \"x\" not found\n"},
		{"verbose", true, "Error [E009]: query \"x\" not found\nDetails: reql.db\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}
			require.NoError(t, formatter.Error("E009", `query "x" not found`, "reql.db"))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(ErrCodeDatabase, "disk full", nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E011: disk full", err.Error())
	assert.Contains(t, buf.String(), "Error [E011]: disk full")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag}
	quiet.VerboseLog("compiled %s", "sum")
	assert.Empty(t, diag.String())

	loud := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: true}
	loud.VerboseLog("compiled %s", "sum")
	assert.Equal(t, "compiled sum\n", diag.String())
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON on stdout")

	fallback := &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	fallback.VerboseLog("done")
	assert.Equal(t, "done\n", out.String())
	assert.Same(t, io.Writer(out), fallback.GetErrWriter())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "drift")))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "bad path"))))

	cause := errors.New("permission denied")
	wrapped := WrapExitError(ExitCommandError, "failed to find scenarios", cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "failed to find scenarios: permission denied", wrapped.Error())
}

func TestCLIResponse_OmitsEmptyFields(t *testing.T) {
	data, err := json.Marshal(CLIResponse{Status: "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))

	data, err = json.Marshal(CLIError{Code: "E001", Message: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"E001","message":"boom"}`, string(data))
}
