package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	configPath := os.Getenv("DOCULEARN_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	root := &cobra.Command{
		Use:           "doculearn",
		Short:         "Turn PDF documents into notes, flashcards and quizzes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to YAML config")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(studyCmd(&configPath))
	root.AddCommand(parseQuizCmd())
	return root
}
