package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/spiralite/internal/app/journal"
	"github.com/PabloGalante/spiralite/internal/config"
	"github.com/PabloGalante/spiralite/internal/domain"
	"github.com/PabloGalante/spiralite/internal/factory"
	"github.com/PabloGalante/spiralite/internal/observability"
)

type cli struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	envFile  string
	jsonMode bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "spiralite",
		Short:         "Dream journal with persona interpretations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before the environment")
	root.PersistentFlags().BoolVar(&c.jsonMode, "json", false, "print JSON instead of styled text")

	root.AddCommand(
		c.recordCmd(),
		c.interpretCmd(),
		c.parseCmd(),
		c.listCmd(),
		c.showCmd(),
		c.deleteCmd(),
		c.groupsCmd(),
		c.insightsCmd(),
		c.sortCmd(),
		c.personasCmd(),
		c.typesCmd(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(c.envFile)
	if err != nil {
		return nil, err
	}
	// logs go to stderr so stdout stays clean for piping
	observability.Configure(c.errOut, cfg.LogLevel, "text")
	return cfg, nil
}

// withJournal opens the configured journal for the duration of fn.
func (c *cli) withJournal(ctx context.Context, fn func(*journal.Service) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	j, err := factory.NewJournal(ctx, cfg)
	if err != nil {
		return err
	}
	defer j.Close()
	return fn(j.Service)
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dreamFlags are shared by record and interpret.
type dreamFlags struct {
	persona   string
	title     string
	file      string
	symbols   []string
	themes    []string
	lucid     bool
	recurring bool
}

func (f *dreamFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.persona, "persona", "p", string(domain.PersonaOrion), "interpreting persona (orion|limnus)")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "dream title")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the dream text from a file ('-' for stdin)")
	cmd.Flags().StringSliceVar(&f.symbols, "symbol", nil, "symbol present in the dream (repeatable)")
	cmd.Flags().StringSliceVar(&f.themes, "theme", nil, "theme of the dream (repeatable)")
	cmd.Flags().BoolVar(&f.lucid, "lucid", false, "the dreamer knew they were dreaming")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "the dream recurs")
}

func (c *cli) dreamInput(f *dreamFlags, args []string) (journal.InterpretInput, error) {
	text := strings.Join(args, " ")
	if f.file != "" {
		b, err := c.readSource(f.file)
		if err != nil {
			return journal.InterpretInput{}, err
		}
		text = string(b)
	}
	if strings.TrimSpace(text) == "" {
		return journal.InterpretInput{}, domain.ErrEmptyDream
	}

	return journal.InterpretInput{
		Text:      text,
		Persona:   domain.PersonaID(strings.ToLower(f.persona)),
		Title:     f.title,
		Symbols:   f.symbols,
		Themes:    f.themes,
		Lucid:     f.lucid,
		Recurring: f.recurring,
	}, nil
}

func (c *cli) readSource(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.in)
	}
	return os.ReadFile(path)
}

// userError hides completion details behind the single failure message.
func userError(err error) error {
	if errors.Is(err, domain.ErrInterpretationFailed) {
		return errors.New(domain.InterpretationFailureMessage)
	}
	return err
}

func (c *cli) recordCmd() *cobra.Command {
	var f dreamFlags
	cmd := &cobra.Command{
		Use:   "record [DREAM TEXT...]",
		Short: "Interpret a dream and save it to the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.dreamInput(&f, args)
			if err != nil {
				return err
			}
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				out, err := svc.Record(cmd.Context(), in)
				if err != nil {
					return userError(err)
				}
				if c.jsonMode {
					return c.printJSON(out.Dream)
				}
				renderDream(c.out, out.Dream)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) interpretCmd() *cobra.Command {
	var f dreamFlags
	cmd := &cobra.Command{
		Use:   "interpret [DREAM TEXT...]",
		Short: "Interpret a dream without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := c.dreamInput(&f, args)
			if err != nil {
				return err
			}
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				res, err := svc.Interpret(cmd.Context(), in)
				if err != nil {
					return userError(err)
				}
				if c.jsonMode {
					return c.printJSON(res)
				}
				renderResult(c.out, res)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) parseCmd() *cobra.Command {
	var dreamText string
	cmd := &cobra.Command{
		Use:   "parse [FILE]",
		Short: "Parse a raw completion read from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			raw, err := c.readSource(src)
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			parser, err := factory.NewParser(cfg)
			if err != nil {
				return err
			}

			res := parser.Parse(string(raw), dreamText)
			if c.jsonMode {
				return c.printJSON(res)
			}
			renderResult(c.out, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&dreamText, "dream-text", "", "dream text used to synthesize a missing title")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var sortBy, dreamType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded dreams",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := journal.ListInput{
				SortBy: domain.SortOption(sortBy),
				Type:   domain.DreamType(dreamType),
			}

			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				dreams, err := svc.ListDreams(cmd.Context(), in)
				if err != nil {
					return err
				}
				if c.jsonMode {
					return c.printJSON(dreams)
				}
				if len(dreams) == 0 {
					fmt.Fprintln(c.out, mutedStyle.Render("no dreams recorded yet"))
					return nil
				}
				for _, d := range dreams {
					renderDreamLine(c.out, d)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "sort order (date-desc, date-asc, type, persona, length-desc, length-asc)")
	cmd.Flags().StringVar(&dreamType, "type", "", "only dreams of this type (label or slug)")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show DREAM_ID",
		Short: "Show one dream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				d, err := svc.GetDream(cmd.Context(), domain.DreamID(args[0]))
				if err != nil {
					return err
				}
				if c.jsonMode {
					return c.printJSON(d)
				}
				renderDream(c.out, d)
				return nil
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DREAM_ID",
		Short: "Delete a dream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				svc.DeleteDream(cmd.Context(), domain.DreamID(args[0]))
				fmt.Fprintf(c.out, "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) groupsCmd() *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Group dreams by persona or type",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				groups, err := svc.GroupDreams(cmd.Context(), by)
				if err != nil {
					return err
				}
				if c.jsonMode {
					return c.printJSON(groups)
				}
				renderGroups(c.out, groups)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", journal.GroupByTypeKey, "grouping key (persona|type)")
	return cmd
}

func (c *cli) insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Summarise the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				in := svc.Insights(cmd.Context())
				if c.jsonMode {
					return c.printJSON(in)
				}
				renderInsights(c.out, in)
				return nil
			})
		},
	}
}

func (c *cli) sortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sort [OPTION]",
		Short: "Show or set the stored sort order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withJournal(cmd.Context(), func(svc *journal.Service) error {
				if len(args) == 1 {
					if err := svc.SetSortBy(cmd.Context(), domain.SortOption(args[0])); err != nil {
						return err
					}
				}
				fmt.Fprintln(c.out, svc.SortBy())
				return nil
			})
		},
	}
}

func (c *cli) personasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List interpreting personas",
		RunE: func(cmd *cobra.Command, args []string) error {
			personas := domain.Personas()
			if c.jsonMode {
				return c.printJSON(personas)
			}
			renderPersonas(c.out, personas)
			return nil
		},
	}
}

func (c *cli) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List dream classifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := domain.DreamTypes()
			if c.jsonMode {
				return c.printJSON(infos)
			}
			renderDreamTypes(c.out, infos)
			return nil
		},
	}
}
