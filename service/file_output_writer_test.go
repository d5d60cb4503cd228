package service

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/copyscn/domain"
)

func TestFileOutputWriter_ToWriter(t *testing.T) {
	var out, status bytes.Buffer
	w := NewFileOutputWriterFs(afero.NewMemMapFs(), &status)

	err := w.Write(&out, "", domain.OutputFormatText, func(wr io.Writer) error {
		_, err := io.WriteString(wr, "report")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "report", out.String())
	assert.Empty(t, status.String())
}

func TestFileOutputWriter_ToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	var status bytes.Buffer
	w := NewFileOutputWriterFs(fs, &status)

	err := w.Write(nil, "/reports/q5/copies.json", domain.OutputFormatJSON, func(wr io.Writer) error {
		_, err := io.WriteString(wr, "{}")
		return err
	})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/reports/q5/copies.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, "JSON report generated: /reports/q5/copies.json\n", status.String())
}

func TestFileOutputWriter_Errors(t *testing.T) {
	boom := errors.New("boom")
	w := NewFileOutputWriterFs(afero.NewMemMapFs(), io.Discard)

	err := w.Write(io.Discard, "", domain.OutputFormatText, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))

	ro := NewFileOutputWriterFs(afero.NewReadOnlyFs(afero.NewMemMapFs()), io.Discard)
	err = ro.Write(nil, "/out/report.csv", domain.OutputFormatCSV, func(io.Writer) error { return nil })
	assert.True(t, domain.HasCode(err, domain.ErrCodeOutputError))
}
