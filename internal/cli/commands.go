package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ooti/prompt-lab/internal/api"
	"github.com/ooti/prompt-lab/internal/commands"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/service"
)

func (a *App) frameworksCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "frameworks",
		Aliases: []string{"ls"},
		Short:   "List prompt frameworks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := map[string]interface{}{}
			if format == "ids" {
				params["format"] = "ids"
			}
			result, err := a.run(cmd.Context(), "list-frameworks", params)
			if err != nil {
				return err
			}
			if format == "ids" {
				for _, id := range result.Data.([]models.FrameworkID) {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}
			return formatFrameworks(cmd.OutOrStdout(), result.Data.([]models.Framework), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, table, json, ids)")

	cmd.AddCommand(a.showFrameworkCommand(), a.searchFrameworksCommand())
	return cmd
}

func (a *App) showFrameworkCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a framework and its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.run(cmd.Context(), "get-framework", map[string]interface{}{"id": args[0]})
			if err != nil {
				return err
			}
			fw := result.Data.(*models.Framework)
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), fw)
			}
			formatFramework(cmd.OutOrStdout(), fw)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}

func (a *App) searchFrameworksCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Fuzzy search frameworks by name, tagline or field label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.run(cmd.Context(), "search-frameworks", map[string]interface{}{
				"query": strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return formatFrameworks(cmd.OutOrStdout(), result.Data.([]models.Framework), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, table, json, ids)")
	return cmd
}

// renderFlags are the render command's inputs
type renderFlags struct {
	set         []string
	audience    string
	tone        string
	length      string
	style       string
	constraints string
	vibeModel   string
	vibe        string
	format      string
	copy        bool
	out         string
	title       string
}

func (f *renderFlags) extras() map[string]interface{} {
	extras := map[string]interface{}{}
	for key, value := range map[string]string{
		"audience":    f.audience,
		"tone":        f.tone,
		"length":      f.length,
		"style":       f.style,
		"constraints": f.constraints,
	} {
		if value != "" {
			extras[key] = value
		}
	}
	return extras
}

func (f *renderFlags) vibeSelection() map[string]interface{} {
	if f.vibeModel == "" && f.vibe == "" {
		return nil
	}
	sel := map[string]interface{}{}
	if f.vibeModel != "" {
		sel["model"] = f.vibeModel
	}
	if f.vibe != "" {
		sel["vibe"] = f.vibe
	}
	return sel
}

func (a *App) renderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a framework with field values",
		Long: `Render a framework with field values set by repeated --set key=value flags.

Examples:
  prompt-lab render rtf --set role="Brand strategist" --set task="Write a tagline"
  prompt-lab render solve --set situation="Launch" --tone warm --vibe-model claude --vibe coach
  prompt-lab render race --set role=PM --out ./exports --title "Launch brief"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(flags.set)
			if err != nil {
				return err
			}
			return a.render(cmd, models.FrameworkID(args[0]), values, flags)
		},
	}

	addRenderFlags(cmd, flags)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	addValueFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the output to the clipboard")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Write a markdown export into this directory")
	cmd.Flags().StringVar(&flags.title, "title", "", "Export title (default: framework name + \"-prompt\")")
}

// addValueFlags registers the field, extras and vibe flags shared by render
// and export
func addValueFlags(cmd *cobra.Command, flags *renderFlags) {
	cmd.Flags().StringArrayVarP(&flags.set, "set", "s", nil, "Field value as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.audience, "audience", "", "Intended audience")
	cmd.Flags().StringVar(&flags.tone, "tone", "", "Tone/voice")
	cmd.Flags().StringVar(&flags.length, "length", "", "Target length")
	cmd.Flags().StringVar(&flags.style, "style", "", "Style/formatting preferences")
	cmd.Flags().StringVar(&flags.constraints, "constraints", "", "Additional constraints")
	cmd.Flags().StringVar(&flags.vibeModel, "vibe-model", "", "Prepend a style snippet for this model (gpt, claude, llama, gemini)")
	cmd.Flags().StringVar(&flags.vibe, "vibe", "", "Style snippet tone (neutral, friendly, analytical, persuasive, coach, creative)")
}

func (a *App) render(cmd *cobra.Command, id models.FrameworkID, values map[string]string, flags *renderFlags) error {
	params := map[string]interface{}{
		"frameworkId": string(id),
		"values":      values,
		"extras":      flags.extras(),
		"format":      flags.format,
	}
	if sel := flags.vibeSelection(); sel != nil {
		params["vibe"] = sel
	}

	result, err := a.run(cmd.Context(), "render", params)
	if err != nil {
		return err
	}
	output := result.Data.(commands.RenderOutput).Output
	fmt.Fprintln(cmd.OutOrStdout(), output)

	if flags.copy {
		if err := a.copy(cmd, output); err != nil {
			return err
		}
	}

	if flags.out != "" {
		res, err := a.service.Export(exportRequest(id, values, flags))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", res.Path)
	}
	return nil
}

func exportRequest(id models.FrameworkID, values map[string]string, flags *renderFlags) service.ExportRequest {
	req := service.ExportRequest{
		RenderRequest: service.RenderRequest{
			FrameworkID: id,
			Values:      models.Values(values),
			Extras:      extrasFromFlags(flags),
		},
		Title: flags.title,
		Dir:   flags.out,
	}
	if flags.vibeSelection() != nil {
		req.Vibe = &service.VibeSelection{Model: models.ModelKey(flags.vibeModel), Vibe: models.VibeKey(flags.vibe)}
	}
	return req
}

func (a *App) exportCommand() *cobra.Command {
	flags := &renderFlags{}
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a framework as a markdown document",
		Long: `Render a framework and write it as "# title" followed by the prompt to
<slug of title>.md in the export directory (config export_dir unless --dir is given).

Examples:
  prompt-lab export race --set role=PM --title "Launch brief"
  prompt-lab export rtf --set role=Coach --dir ./exports --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(flags.set)
			if err != nil {
				return err
			}
			req := exportRequest(models.FrameworkID(args[0]), values, flags)

			if dryRun {
				res, err := a.service.BuildExport(req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Would write %s\n", res.Filename)
				fmt.Fprint(cmd.OutOrStdout(), res.Content)
				return nil
			}

			res, err := a.service.Export(req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return nil
		},
	}

	addValueFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.out, "dir", "d", "", "Export directory (default: config export_dir)")
	cmd.Flags().StringVar(&flags.title, "title", "", "Export title (default: framework name + \"-prompt\")")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the document instead of writing it")
	return cmd
}

func (a *App) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(a.service)
		},
	}
}

func extrasFromFlags(f *renderFlags) models.Extras {
	return models.Extras{
		Audience:    f.audience,
		Tone:        f.tone,
		Length:      f.length,
		Style:       f.style,
		Constraints: f.constraints,
	}
}

func (a *App) classifyCommand() *cobra.Command {
	var (
		format string
		render bool
	)

	cmd := &cobra.Command{
		Use:   "classify <text...>",
		Short: "Recommend a framework for a free-text goal",
		Long: `Score free text against every framework's keywords and recommend one.

With --render, the recommended framework is rendered with the fields
pre-filled from the text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.run(cmd.Context(), "classify", map[string]interface{}{
				"text": strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			cls := result.Data.(*models.ClassificationResult)

			if format == "json" {
				if err := writeJSON(cmd.OutOrStdout(), cls); err != nil {
					return err
				}
			} else {
				a.formatClassification(cmd.OutOrStdout(), cls)
			}

			if !render {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())
			rendered, err := a.run(cmd.Context(), "render", map[string]interface{}{
				"frameworkId": string(cls.BestID),
				"values":      map[string]string(cls.FieldsByID[cls.BestID]),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered.Data.(commands.RenderOutput).Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	cmd.Flags().BoolVar(&render, "render", false, "Render the recommended framework with the pre-filled fields")
	return cmd
}

func (a *App) vibeCommand() *cobra.Command {
	var (
		model string
		tone  string
		list  bool
		clip  bool
	)

	cmd := &cobra.Command{
		Use:   "vibe",
		Short: "Print a model-specific style snippet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				result, err := a.run(cmd.Context(), "list-vibes", nil)
				if err != nil {
					return err
				}
				formatVibeOptions(cmd.OutOrStdout(), result.Data.(commands.VibeOptions))
				return nil
			}

			result, err := a.run(cmd.Context(), "vibe", map[string]interface{}{"model": model, "vibe": tone})
			if err != nil {
				return err
			}
			snippet := result.Data.(commands.VibeOutput).Snippet
			fmt.Fprintln(cmd.OutOrStdout(), snippet)
			if clip {
				return a.copy(cmd, snippet)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "Target model (default from config)")
	cmd.Flags().StringVar(&tone, "vibe", "", "Tone preset (default from config)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List models and tone presets")
	cmd.Flags().BoolVar(&clip, "copy", false, "Copy the snippet to the clipboard")
	return cmd
}

func (a *App) serveCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = a.cfg.Port
			}
			if port < 1 || port > 65535 {
				return errors.ValidationError(fmt.Sprintf("invalid port %d", port))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return api.NewAPIServer(a.service, port, a.logger).Start(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on (default from config)")
	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, config.Version)
		},
	}
}

func formatFrameworks(w io.Writer, list []models.Framework, format string) error {
	switch format {
	case "json":
		return writeJSON(w, list)
	case "ids":
		for _, fw := range list {
			fmt.Fprintln(w, fw.ID)
		}
	case "table":
		fmt.Fprintf(w, "%-8s %-12s %s\n", "ID", "Name", "Tagline")
		fmt.Fprintln(w, strings.Repeat("-", 72))
		for _, fw := range list {
			fmt.Fprintf(w, "%-8s %-12s %s\n", fw.ID, fw.Name, truncate(fw.Tagline, 50))
		}
	default:
		for _, fw := range list {
			fmt.Fprintf(w, "%s - %s\n", fw.ID, fw.Name)
			if fw.Tagline != "" {
				fmt.Fprintf(w, "  %s\n", fw.Tagline)
			}
			labels := make([]string, len(fw.Fields))
			for i, f := range fw.Fields {
				labels[i] = f.Label
			}
			fmt.Fprintf(w, "  Fields: %s\n\n", strings.Join(labels, ", "))
		}
	}
	return nil
}

func formatFramework(w io.Writer, fw *models.Framework) {
	fmt.Fprintf(w, "%s (%s)\n", fw.Name, fw.ID)
	if fw.Tagline != "" {
		fmt.Fprintf(w, "%s\n", fw.Tagline)
	}
	if fw.Intro != "" {
		fmt.Fprintf(w, "\nIntro: %s\n", fw.Intro)
	}
	fmt.Fprintln(w, "\nFields:")
	for _, f := range fw.Fields {
		fmt.Fprintf(w, "  %-12s %-12s %s\n", f.Key, f.Label, f.Placeholder)
	}
}

func (a *App) formatClassification(w io.Writer, cls *models.ClassificationResult) {
	name := string(cls.BestID)
	if fw, err := a.service.GetFramework(cls.BestID); err == nil {
		name = fw.Name
	}
	fmt.Fprintf(w, "Recommended: %s (%s)\n", name, cls.BestID)
	fmt.Fprintln(w, cls.Why)
	fmt.Fprintln(w, "\nScores:")
	for _, fw := range a.service.ListFrameworks() {
		fmt.Fprintf(w, "  %-8s %d\n", fw.ID, cls.Scores[fw.ID])
	}
}

func formatVibeOptions(w io.Writer, opts commands.VibeOptions) {
	fmt.Fprintln(w, "Models:")
	for _, m := range opts.Models {
		fmt.Fprintf(w, "  %-8s %s\n", m.Key, m.Label)
	}
	fmt.Fprintln(w, "\nVibes:")
	for _, v := range opts.Vibes {
		fmt.Fprintf(w, "  %-12s %s\n", v.Key, v.Label)
	}
}
