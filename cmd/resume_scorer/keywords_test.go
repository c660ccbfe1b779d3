package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/types"
)

func TestInitKeywords(t *testing.T) {
	store := keywords.NewFileStore(filepath.Join(t.TempDir(), "keywords.json"))
	var out bytes.Buffer

	require.NoError(t, initKeywords(store, &out))
	assert.FileExists(t, store.Path())
	assert.Contains(t, out.String(), "Keyword set ready: "+store.Path())

	ks, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultKeywordSet(), ks)
}

func TestInitKeywords_KeepsCustomSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.json")
	custom := `{"SKILLS_KEYWORDS":["go"],"EXPERIENCE_KEYWORDS":["led"],"ACHIEVEMENTS_KEYWORDS":["won"],"PROJECTS_KEYWORDS":["cli"]}`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	require.NoError(t, initKeywords(keywords.NewFileStore(path), &bytes.Buffer{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, custom, string(data))
}

func TestShowKeywords_JSON(t *testing.T) {
	store := keywords.NewFileStore(filepath.Join(t.TempDir(), "keywords.json"))
	var out bytes.Buffer

	require.NoError(t, showKeywords(store, "", true, &out))

	var ks types.KeywordSet
	require.NoError(t, json.Unmarshal(out.Bytes(), &ks))
	assert.Equal(t, types.DefaultKeywordSet(), ks)
}

func TestShowKeywords_Box(t *testing.T) {
	store := keywords.NewFileStore(filepath.Join(t.TempDir(), "keywords.json"))
	var out bytes.Buffer

	require.NoError(t, showKeywords(store, "", false, &out))
	assert.Contains(t, out.String(), "KEYWORDS")
	assert.Contains(t, out.String(), "SKILLS_KEYWORDS")
}

func TestShowKeywords_Category(t *testing.T) {
	store := keywords.NewFileStore(filepath.Join(t.TempDir(), "keywords.json"))
	var out bytes.Buffer

	require.NoError(t, showKeywords(store, "experience", true, &out))
	var ks types.KeywordSet
	require.NoError(t, json.Unmarshal(out.Bytes(), &ks))
	assert.Equal(t, types.KeywordSet{"EXPERIENCE_KEYWORDS": types.DefaultKeywordSet().Keywords(types.CategoryExperience)}, ks)

	err := showKeywords(store, "hobbies", false, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section category")
}

func TestCommandWiring(t *testing.T) {
	for _, args := range [][]string{{"score"}, {"keywords", "init"}, {"keywords", "show"}, {"serve"}, {"extract"}} {
		cmd, _, err := rootCmd.Find(args)
		require.NoError(t, err, args)
		assert.Equal(t, args[len(args)-1], cmd.Name())
	}

	assert.NotNil(t, scoreCmd.Flags().Lookup("parallel"))
	assert.NotNil(t, scoreCmd.Flags().Lookup("save"))
	assert.NotNil(t, serveCmd.Flags().Lookup("port"))
	assert.NotNil(t, keywordsShowCmd.Flags().Lookup("json"))
	assert.NotNil(t, keywordsShowCmd.Flags().Lookup("category"))
}
