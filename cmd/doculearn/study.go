package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/docu-learn/internal/extract"
	"github.com/thywilljoshua/docu-learn/internal/infra/memory"
	"github.com/thywilljoshua/docu-learn/internal/render"
	"github.com/thywilljoshua/docu-learn/internal/study"
)

func studyCmd(configPath *string) *cobra.Command {
	var out string
	var activities string

	cmd := &cobra.Command{
		Use:   "study <pdf>",
		Short: "Generate study aids for a PDF and print them or write a Markdown pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseActivities(activities)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "read %s", args[0])
			}

			ctx := cmd.Context()
			service, err := newService(ctx, cfg, memory.NewSessionStore(cfg.SessionTTL()))
			if err != nil {
				return err
			}
			session, err := service.CreateSession(ctx, extract.Document{
				Name:     filepath.Base(args[0]),
				MIMEType: extract.MIMETypePDF,
				Data:     data,
			})
			if err != nil {
				return err
			}

			results := make(map[study.Activity]*study.Result, len(selected))
			for _, a := range selected {
				log.Printf("generating %s...", a)
				st, err := service.Generate(ctx, session.ID, a, false)
				if err != nil {
					return errors.Wrapf(err, "%s", a)
				}
				results[a] = st.Result
			}

			if out == "" {
				return printResults(cmd.OutOrStdout(), results)
			}
			pack := render.Pack{DocumentName: session.DocumentName}
			if r := results[study.ActivityNotes]; r != nil {
				pack.Notes = r.Notes
			}
			if r := results[study.ActivityFlashcards]; r != nil {
				pack.Flashcards = r.Flashcards
			}
			if r := results[study.ActivityQuiz]; r != nil {
				pack.Quiz = r.Quiz
			}
			paths, err := render.WritePack(out, pack, time.Now())
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a Markdown study pack to this directory instead of printing JSON")
	cmd.Flags().StringVar(&activities, "activities", "notes,flashcards,quiz", "comma-separated activities to generate")
	return cmd
}

// parseActivities keeps the given order and drops duplicates.
func parseActivities(raw string) ([]study.Activity, error) {
	var out []study.Activity
	seen := map[study.Activity]bool{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := study.ParseActivity(part)
		if err != nil {
			return nil, err
		}
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no activities selected")
	}
	return out, nil
}

func printResults(w io.Writer, results map[study.Activity]*study.Result) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
