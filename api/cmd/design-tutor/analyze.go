package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"design-tutor/api/internal/tutor"
)

var (
	analyzeLanguage string
	analyzeJSON     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Generate a tutorial for a local screenshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", tutor.DefaultLanguage, "Tutorial language ("+strings.Join(tutor.Languages(), ", ")+")")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the API JSON response instead of markdown")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.svc.Analyze(cmd.Context(), tutor.Request{
		Image:    data,
		MIME:     http.DetectContentType(data),
		Language: analyzeLanguage,
	})
	if err != nil {
		return errors.New(tutor.DetailOf(err))
	}

	w := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	fmt.Fprintf(w, "Difficulty: %s\nEstimated time: %s\nComponents: %s\n\n%s\n",
		out.EstimatedDifficulty, out.EstimatedTime,
		strings.Join(out.ComponentsDetected, ", "), out.Tutorial)
	return nil
}
