package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/halvden/oblevel/internal/bootstrap"
	"github.com/halvden/oblevel/internal/pkg/buildinfo"
	"github.com/halvden/oblevel/internal/pkg/config"
	"github.com/halvden/oblevel/internal/service"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dbFile  string
)

const separator = "═══════════════════════════════════════════════"

func main() {
	rootCmd := &cobra.Command{
		Use:   "oblevel",
		Short: "Track skill increments and level-ups for an Oblivion character",
		Long: `oblevel keeps a character's leveling history in a SQLite file:
one row per skill and attribute per level, with major-skill increases
counted toward the next level-up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&dbFile, "database", "d", "", "character file (defaults to the configured or most recent one)")

	rootCmd.AddCommand(newCmd())
	rootCmd.AddCommand(sheetCmd())
	rootCmd.AddCommand(incCmd())
	rootCmd.AddCommand(levelupCmd())
	rootCmd.AddCommand(levelCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(majorsCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withCore opens (or creates) the character file and hands the core to fn.
// The persistent --config/--database flags fill in whatever opts leaves empty.
func withCore(opts bootstrap.Options, fn func(ctx context.Context, core *bootstrap.Core) error) error {
	ctx := context.Background()
	opts.ConfigPath = cfgFile
	if opts.Database == "" {
		opts.Database = dbFile
	}
	core, err := bootstrap.New(ctx, opts)
	if err != nil {
		return err
	}
	defer core.Close()
	return fn(ctx, core)
}

// parsePairs turns repeated "Name=Value" flags into a map.
func parsePairs(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("bad assignment %q, want Name=Value", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("bad value in %q: %w", p, err)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}

func printSheet(sheet *service.SheetView) {
	fmt.Printf("%s — level %d\n", sheet.Path, sheet.Level)
	fmt.Println(separator)
	fmt.Printf("  %-14s %-13s %5s %5s\n", "SKILL", "ATTRIBUTE", "VALUE", "GAIN")
	for _, row := range sheet.Rows {
		marker := " "
		if row.Major {
			marker = "*"
		}
		gain := "·"
		if row.Increase != 0 {
			gain = fmt.Sprintf("%+d", row.Increase)
		}
		fmt.Printf("%s %-14s %-13s %5d %5s\n", marker, row.Name, row.Attribute, row.Value, gain)
	}
	fmt.Println(separator)
	for _, a := range sheet.Attributes {
		gain := ""
		if a.Increase != 0 {
			gain = fmt.Sprintf(" %+d", a.Increase)
		}
		fmt.Printf("  %-14s %13s %5d%s\n", a.Name, "", a.Value, gain)
	}
	fmt.Println(separator)
	fmt.Printf("readiness: %d of %d", sheet.Readiness, sheet.ReadinessTarget)
	if sheet.CanLevelUp {
		fmt.Print(" — ready to level up")
	}
	fmt.Println()
}

func newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <path>",
		Short: "Create a fresh character file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{Database: args[0], Create: true}, func(ctx context.Context, core *bootstrap.Core) error {
				e := core.Engine
				sheet, err := e.Sheet()
				if err != nil {
					return err
				}
				fmt.Printf("created %s\n", e.Path())
				fmt.Printf("  %d skills, %d attributes, level 1\n", len(sheet.Rows), len(sheet.Attributes))
				fmt.Printf("  major skills: %s\n", strings.Join(e.MajorNames(), ", "))
				return nil
			})
		},
	}
}

func sheetCmd() *cobra.Command {
	var asJSON bool
	var level int

	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Show the current level's sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{Level: level}, func(ctx context.Context, core *bootstrap.Core) error {
				sheet, err := core.Engine.Sheet()
				if err != nil {
					return err
				}
				if asJSON {
					b, err := json.MarshalIndent(sheet, "", "  ")
					if err != nil {
						return err
					}
					fmt.Println(string(b))
					return nil
				}
				printSheet(sheet)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the sheet as JSON")
	cmd.Flags().IntVarP(&level, "level", "l", 0, "show a stored level instead of the latest one")
	return cmd
}

func incCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inc <skill>...",
		Short: "Increment skills by name or letter, then save",
		Long: `Each argument bumps one skill by a single point; repeat an argument to
raise a skill several times. The changes are written out before the
command returns.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				e := core.Engine

				touched := make(map[int]bool, len(args))
				for _, sel := range args {
					pos, err := e.ResolveSkill(sel)
					if err != nil {
						return err
					}
					if _, _, err := e.IncrementSkill(pos); err != nil {
						return err
					}
					touched[pos] = true
				}
				if err := e.Save(ctx); err != nil {
					return err
				}

				sheet, err := e.Sheet()
				if err != nil {
					return err
				}
				positions := make([]int, 0, len(touched))
				for pos := range touched {
					positions = append(positions, pos)
				}
				sort.Ints(positions)
				for _, pos := range positions {
					row := sheet.Rows[pos]
					fmt.Printf("%-14s %3d (%+d this level)\n", row.Name, row.Value, row.Increase)
				}
				fmt.Printf("readiness: %d of %d", sheet.Readiness, sheet.ReadinessTarget)
				if sheet.CanLevelUp {
					fmt.Print(" — ready to level up")
				}
				fmt.Println()
				return nil
			})
		},
	}
}

func levelupCmd() *cobra.Command {
	var attrPairs []string
	var force bool

	cmd := &cobra.Command{
		Use:   "levelup",
		Short: "Close the current level and start the next",
		Long: `Carries every skill and attribute into a new level. Attribute values
earned on leveling are passed as --attr Name=Value; anything not named
keeps its previous value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parsePairs(attrPairs)
			if err != nil {
				return err
			}
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				e := core.Engine
				if !force && !e.CanLevelUp() {
					return fmt.Errorf("readiness %d of %d — raise major skills or pass --force",
						e.Readiness(), e.ReadinessTarget())
				}

				overrides := make(map[uint]int, len(values))
				for name, value := range values {
					id, err := e.ResolveAttribute(name)
					if err != nil {
						return err
					}
					overrides[id] = value
				}
				if err := e.LevelUp(ctx, overrides); err != nil {
					return err
				}

				level, _ := e.CurrentLevel()
				fmt.Printf("leveled up — now at level %d\n", level)
				sheet, err := e.Sheet()
				if err != nil {
					return err
				}
				printSheet(sheet)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&attrPairs, "attr", nil, "attribute value for the new level, as Name=Value (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "level up below the readiness target")
	return cmd
}

func levelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "level",
		Short: "Inspect or switch stored levels",
	}
	cmd.AddCommand(levelListCmd())
	cmd.AddCommand(levelSetCmd())
	return cmd
}

func levelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stored level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				levels, err := core.Engine.Levels(ctx)
				if err != nil {
					return err
				}
				for _, l := range levels {
					note := ""
					if !l.Complete {
						note = fmt.Sprintf("  (incomplete: %d skills, %d attributes)", l.SkillRows, l.AttributeRows)
					}
					marker := " "
					if l.Current {
						marker = "*"
					}
					fmt.Printf("%s level %d%s\n", marker, l.Level, note)
				}
				return nil
			})
		},
	}
}

func levelSetCmd() *cobra.Command {
	var create bool

	cmd := &cobra.Command{
		Use:   "set <level>",
		Short: "Show another level's sheet, optionally creating its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("bad level %q: %w", args[0], err)
			}
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				if err := core.Engine.SelectLevel(ctx, level, create); err != nil {
					return err
				}
				sheet, err := core.Engine.Sheet()
				if err != nil {
					return err
				}
				printSheet(sheet)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&create, "create", false, "zero-fill missing rows instead of failing")
	return cmd
}

func editCmd() *cobra.Command {
	var level int
	var skillPairs, attrPairs []string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Correct stored values on any level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			skillValues, err := parsePairs(skillPairs)
			if err != nil {
				return err
			}
			attrValues, err := parsePairs(attrPairs)
			if err != nil {
				return err
			}
			if len(skillValues) == 0 && len(attrValues) == 0 {
				return fmt.Errorf("nothing to edit: pass --skill and/or --attr")
			}

			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				e := core.Engine
				target := level
				if target == 0 {
					target, _ = e.CurrentLevel()
				}

				skills := make(map[uint]int, len(skillValues))
				for name, value := range skillValues {
					id, err := e.ResolveSkillID(name)
					if err != nil {
						return err
					}
					skills[id] = value
				}
				attrs := make(map[uint]int, len(attrValues))
				for name, value := range attrValues {
					id, err := e.ResolveAttribute(name)
					if err != nil {
						return err
					}
					attrs[id] = value
				}

				if err := e.EditLevel(ctx, target, skills, attrs); err != nil {
					return err
				}
				fmt.Printf("level %d updated: %d skill values, %d attribute values\n",
					target, len(skills), len(attrs))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&level, "level", "l", 0, "level to edit (defaults to the current one)")
	cmd.Flags().StringArrayVar(&skillPairs, "skill", nil, "skill value to set, as Name=Value (repeatable)")
	cmd.Flags().StringArrayVar(&attrPairs, "attr", nil, "attribute value to set, as Name=Value (repeatable)")
	return cmd
}

func majorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "majors",
		Short: "Show the major and minor skill sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				fmt.Printf("major: %s\n", strings.Join(core.Engine.MajorNames(), ", "))
				fmt.Printf("minor: %s\n", strings.Join(core.Engine.MinorNames(), ", "))
				return nil
			})
		},
	}
	cmd.AddCommand(majorsSetCmd())
	return cmd
}

func majorsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <skill>...",
		Short: "Replace the major skill set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				if err := core.Engine.ReassignMajors(ctx, args); err != nil {
					return err
				}
				fmt.Printf("major skills: %s\n", strings.Join(core.Engine.MajorNames(), ", "))
				sheet, err := core.Engine.Sheet()
				if err != nil {
					return err
				}
				fmt.Printf("readiness recomputed: %d of %d\n", sheet.Readiness, sheet.ReadinessTarget)
				return nil
			})
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <select statement>",
		Short: "Run a read-only SQL query against the character file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCore(bootstrap.Options{}, func(ctx context.Context, core *bootstrap.Core) error {
				res, err := core.DB.RunQuery(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}

				widths := make([]int, len(res.Columns))
				for i, col := range res.Columns {
					widths[i] = len(col)
				}
				for _, row := range res.Rows {
					for i, cell := range row {
						if i < len(widths) && len(cell) > widths[i] {
							widths[i] = len(cell)
						}
					}
				}

				for i, col := range res.Columns {
					fmt.Printf("%-*s  ", widths[i], col)
				}
				fmt.Println()
				for i := range res.Columns {
					fmt.Print(strings.Repeat("─", widths[i]), "  ")
				}
				fmt.Println()
				for _, row := range res.Rows {
					for i, cell := range row {
						fmt.Printf("%-*s  ", widths[i], cell)
					}
					fmt.Println()
				}
				fmt.Printf("(%d rows)\n", len(res.Rows))
				return nil
			})
		},
	}
}

func recentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently opened character files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if len(cfg.Storage.Recent) == 0 {
				fmt.Println("no character files on record")
				return nil
			}
			for i, path := range cfg.Storage.Recent {
				marker := " "
				if i == 0 {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, path)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("oblevel %s (%s)\n", buildinfo.Version, buildinfo.Commit)
			return nil
		},
	}
}
