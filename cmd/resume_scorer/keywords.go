package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/config"
	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/types"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect the keyword set used for scoring",
}

var keywordsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the keyword file with the default keywords if it is missing or invalid",
	Args:  cobra.NoArgs,
	RunE:  runKeywordsInit,
}

var keywordsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the keyword set",
	Args:  cobra.NoArgs,
	RunE:  runKeywordsShow,
}

var (
	keywordsPath   string
	keywordsConfig string
	keywordsJSON   bool
	keywordsOnly   string
)

func init() {
	keywordsCmd.PersistentFlags().StringVarP(&keywordsPath, "keywords", "k", "", "Path to keyword set JSON")
	keywordsCmd.PersistentFlags().StringVar(&keywordsConfig, "config", "", "Path to config.json file")
	keywordsShowCmd.Flags().BoolVar(&keywordsJSON, "json", false, "Print the keyword set as JSON")
	keywordsShowCmd.Flags().StringVar(&keywordsOnly, "category", "", "Only show one category (skills, experience, achievements, projects)")

	keywordsCmd.AddCommand(keywordsInitCmd, keywordsShowCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func keywordStore(cmd *cobra.Command) (*keywords.FileStore, error) {
	cfg, err := loadSettings(cmd, keywordsConfig, flagOverrides{
		"keywords": func(c *config.Config) { c.KeywordsPath = keywordsPath },
	})
	if err != nil {
		return nil, err
	}
	return keywords.NewFileStore(cfg.KeywordsPath), nil
}

func runKeywordsInit(cmd *cobra.Command, _ []string) error {
	store, err := keywordStore(cmd)
	if err != nil {
		return err
	}
	return initKeywords(store, cmd.OutOrStdout())
}

func initKeywords(store *keywords.FileStore, out io.Writer) error {
	if err := store.EnsureDefault(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Keyword set ready: %s\n", store.Path())
	return err
}

func runKeywordsShow(cmd *cobra.Command, _ []string) error {
	store, err := keywordStore(cmd)
	if err != nil {
		return err
	}
	return showKeywords(store, keywordsOnly, keywordsJSON, cmd.OutOrStdout())
}

// showKeywords prints the keyword set, or one category of it when category is set.
func showKeywords(store keywords.Store, category string, asJSON bool, out io.Writer) error {
	ks, err := keywords.LoadOrInit(store)
	if err != nil {
		return err
	}
	if category != "" {
		c, err := types.ParseCategory(category)
		if err != nil {
			return err
		}
		ks = ks.Only(c)
	}

	if asJSON {
		data, err := json.MarshalIndent(ks, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	observability.NewPrinter(out).PrintKeywordSet(ks)
	return nil
}
