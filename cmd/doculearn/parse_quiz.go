package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/docu-learn/internal/quiz"
)

func parseQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-quiz [file|-]",
		Short: "Parse a saved raw quiz response and print the normalized quiz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			q, err := quiz.Parse(string(raw))
			if err != nil {
				var perr *quiz.ParseError
				if errors.As(err, &perr) {
					return errors.New(perr.Detail())
				}
				return err
			}
			b, err := json.MarshalIndent(q, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", args[0])
	}
	return b, nil
}
