package cli

import (
	"fmt"
	"image/color"

	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/catalog"
)

func (c *CLI) stylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List colour styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			table, err := cfg.StyleTable()
			if err != nil {
				return err
			}
			fmt.Println(StyleTitle.Render(fmt.Sprintf("%d styles", table.Len())))
			for _, s := range table.All() {
				printSwatch(s.ID, hexColour(s.Fill), hexColour(s.Stroke), s.TitleStrokeWidth(), s.BodyStrokeWidth())
			}
			return nil
		},
	}
}

func (c *CLI) occasionsCommand() *cobra.Command {
	var showTexts bool
	cmd := &cobra.Command{
		Use:   "occasions",
		Short: "List occasions and their stock messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			occasions, err := cfg.OccasionSet()
			if err != nil {
				return err
			}
			for _, oc := range occasions.All() {
				printKeyValue(oc.Key, oc.Title)
				if !showTexts {
					if len(oc.Texts) > 0 {
						printDetail("%d stock messages", len(oc.Texts))
					}
					continue
				}
				for i, text := range oc.Texts {
					printDetail("[%d] %s", i, text)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTexts, "texts", false, "print the stock messages")
	return cmd
}

func (c *CLI) backgroundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backgrounds",
		Short: "List background images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			bgs, err := catalog.ScanBackgrounds(cfg.BackgroundsDir)
			if err != nil {
				return err
			}
			if bgs.Len() == 0 {
				printInfo("No backgrounds in %s", bgs.Dir())
				return nil
			}
			for i, name := range bgs.Names() {
				fmt.Printf("  %s %s\n", StyleNumber.Render(fmt.Sprintf("%3d", i)), StyleValue.Render(name))
			}
			printDetail("Directory: %s", bgs.Dir())
			return nil
		},
	}
}

// hexColour formats c as #rrggbb for terminal display; alpha is dropped.
func hexColour(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
