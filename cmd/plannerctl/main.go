// plannerctl is the admin CLI for the planner service. It talks to the HTTP
// API, so it works against any running instance without database access.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	apiKey  string
	userID  string
)

func newHTTPClient() *resty.Client {
	c := resty.New().SetBaseURL(baseURL)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return c
}

// fail turns a non-2xx response into an error carrying the server's body.
func fail(resp *resty.Response) error {
	return fmt.Errorf("%s: %s", resp.Status(), resp.String())
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download a user's full backup document",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newHTTPClient().R().Get("/api/users/" + userID + "/backup")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fail(resp)
			}
			if out == "" {
				fmt.Println(resp.String())
				return nil
			}
			if err := os.WriteFile(out, resp.Body(), 0o644); err != nil {
				return err
			}
			fmt.Printf("backup written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the document to this file instead of stdout")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	var (
		file          string
		overwrite     bool
		skipConflicts bool
	)
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore a backup document into a user's account",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			resp, err := newHTTPClient().R().
				SetHeader("Content-Type", "application/json").
				SetQueryParam("overwrite", fmt.Sprintf("%t", overwrite)).
				SetQueryParam("skipConflicts", fmt.Sprintf("%t", skipConflicts)).
				SetBody(doc).
				Post("/api/users/" + userID + "/backup/restore")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fail(resp)
			}
			fmt.Println(resp.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "backup document to restore (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace records that already exist")
	cmd.Flags().BoolVar(&skipConflicts, "skip-conflicts", false, "skip records that already exist")
	return cmd
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record a user owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to wipe %s without --yes", userID)
			}
			resp, err := newHTTPClient().R().Delete("/api/users/" + userID + "/data")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fail(resp)
			}
			var counts map[string]int
			if err := json.Unmarshal(resp.Body(), &counts); err != nil {
				return err
			}
			for collection, n := range counts {
				fmt.Printf("%s: %d deleted\n", collection, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the wipe")
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		weekID string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Download the weekly HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newHTTPClient().R().
				Get("/api/users/" + userID + "/weeks/" + weekID + "/report")
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fail(resp)
			}
			if out == "" {
				out = fmt.Sprintf("weekly-report-%s.html", weekID)
			}
			if err := os.WriteFile(out, resp.Body(), 0o644); err != nil {
				return err
			}
			fmt.Printf("report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&weekID, "week", "w", "", "ISO week id, e.g. 2025-W07 (required)")
	_ = cmd.MarkFlagRequired("week")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default weekly-report-<week>.html)")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "plannerctl",
		Short:         "Admin CLI for the weekly planner service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8080", "planner service base URL")
	root.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key when the service runs with auth enabled")
	root.PersistentFlags().StringVarP(&userID, "user", "u", "", "user id (required)")
	_ = root.MarkPersistentFlagRequired("user")

	root.AddCommand(newExportCmd(), newRestoreCmd(), newClearCmd(), newReportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
