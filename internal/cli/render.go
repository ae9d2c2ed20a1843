package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/catalog"
	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	title       string
	occasion    string
	message     string
	textIndex   int // -1 leaves the message empty
	user        string
	styles      []string
	bestEffort  bool
	timeout     time.Duration
	noCache     bool
	interactive bool
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{user: defaultUser, textIndex: -1}

	cmd := &cobra.Command{
		Use:   "render [background]",
		Short: "Render a card in every style",
		Long: `Render a card on a background image and save one PNG per style.

The background is a file path, or the name or zero-based index of an image
in the configured backgrounds directory. The title comes from --title or
from an occasion; with --occasion, --text-index picks a stock message.
With --interactive, a missing background or occasion is picked from a list.`,
		Example: `  postcard render bg1.jpg --title "С Новым годом!" --message "Счастья и здоровья"
  postcard render 0 --occasion new_year --text-index 2 --style gold --style white
  postcard render -i`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("best-effort") {
				cfg.Render.BestEffort = opts.bestEffort
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Render.Timeout = config.Duration{Duration: opts.timeout}
			}
			var ref string
			if len(args) > 0 {
				ref = args[0]
			}
			return c.runRender(cmd, cfg, ref, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "card title")
	cmd.Flags().StringVarP(&opts.occasion, "occasion", "o", "", "occasion key supplying the title (see 'postcard occasions')")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "message printed below the title")
	cmd.Flags().IntVar(&opts.textIndex, "text-index", opts.textIndex, "stock message of the occasion (wraps around)")
	cmd.Flags().StringVarP(&opts.user, "user", "u", opts.user, "user id owning the cards")
	cmd.Flags().StringSliceVarP(&opts.styles, "style", "s", nil, "style id to render (repeatable, default all)")
	cmd.Flags().BoolVar(&opts.bestEffort, "best-effort", false, "keep going when a style fails")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "render budget, e.g. 30s (0 disables)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the background and occasion interactively")

	cmd.MarkFlagsMutuallyExclusive("title", "occasion")
	cmd.MarkFlagsMutuallyExclusive("message", "text-index")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, cfg config.Config, ref string, opts renderOpts) error {
	ctx := cmd.Context()

	occasions, err := cfg.OccasionSet()
	if err != nil {
		return err
	}
	if opts.interactive {
		if ref == "" {
			bgs, err := catalog.ScanBackgrounds(cfg.BackgroundsDir)
			if err != nil {
				return err
			}
			if ref, err = pickBackground(bgs); err != nil {
				return err
			}
		}
		if opts.title == "" && opts.occasion == "" {
			if err := pickOccasion(occasions, &opts); err != nil {
				return err
			}
		}
	}
	if ref == "" {
		return errors.New(errors.ErrCodeInvalidInput, "background is required (or use --interactive)")
	}

	bg, err := resolveBackground(cfg.BackgroundsDir, ref)
	if err != nil {
		return err
	}
	title, message, err := resolveText(occasions, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.Request{
		UserID:     opts.user,
		Background: bg,
		Title:      title,
		Message:    message,
		Styles:     opts.styles,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering cards...")
	spinner.Start()
	res, err := runner.CreateCards(ctx, req)
	spinner.Stop()
	if res == nil {
		return err
	}
	prog.done(fmt.Sprintf("rendered %d cards", len(res.Cards)))

	if err != nil {
		printWarning("Created %d of %d cards", len(res.Cards), res.Requested)
	} else {
		printSuccess("Created %d cards", len(res.Cards))
	}
	for _, card := range res.Cards {
		printFile(card.Path)
	}
	printCardStats(len(res.Cards), res.Stats.CacheHits, res.Layout.TitleSize, prog.elapsed())
	if err != nil {
		return err
	}

	printNewline()
	printNextStep("List cards", fmt.Sprintf("%s cards list --user %s", appName, opts.user))
	return nil
}

// resolveBackground accepts an existing file path, or a name or index in
// the backgrounds directory.
func resolveBackground(dir, ref string) (string, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, nil
	}
	bgs, err := catalog.ScanBackgrounds(dir)
	if err != nil {
		return "", err
	}
	return bgs.Resolve(ref)
}

// resolveText picks the title and message from the flags.
func resolveText(occasions *catalog.Occasions, opts renderOpts) (title, message string, err error) {
	if opts.occasion == "" {
		if strings.TrimSpace(opts.title) == "" {
			return "", "", errors.New(errors.ErrCodeInvalidInput, "--title or --occasion is required")
		}
		if opts.textIndex >= 0 {
			return "", "", errors.New(errors.ErrCodeInvalidInput, "--text-index needs --occasion")
		}
		return opts.title, opts.message, nil
	}

	oc, err := occasions.Get(opts.occasion)
	if err != nil {
		return "", "", err
	}
	message = opts.message
	if opts.textIndex >= 0 {
		text, ok := oc.Text(opts.textIndex)
		if !ok {
			return "", "", errors.New(errors.ErrCodeInvalidInput, "occasion %q has no stock texts", oc.Key)
		}
		message = text
	}
	return oc.Title, message, nil
}
