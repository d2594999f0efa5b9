package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelrisk_intake/pkg/core/docs"
)

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(good, []byte("Model design notes."), 0644))

	inputs := loadInputs(docs.NewExtractor(docs.Config{}), []string{good, filepath.Join(dir, "missing.pdf")})
	require.Len(t, inputs, 2)
	assert.Equal(t, "paper.txt", inputs[0].Filename)
	assert.Equal(t, "Model design notes.", inputs[0].Text)
	assert.NoError(t, inputs[0].Err)
	assert.Equal(t, "missing.pdf", inputs[1].Filename)
	assert.Error(t, inputs[1].Err)
}

func TestReadIntake(t *testing.T) {
	data, err := readIntake("")
	require.NoError(t, err)
	assert.Empty(t, data)

	path := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"general_info": {"model_name": "Retail PD"}}`), 0644))
	data, err = readIntake(path)
	require.NoError(t, err)
	assert.Equal(t, "Retail PD", data.String("general_info", "model_name"))

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err = readIntake(path)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
