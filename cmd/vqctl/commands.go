package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/intavia/visualquery/internal/domain/constraint"
	"github.com/intavia/visualquery/internal/domain/layout"
	"github.com/intavia/visualquery/internal/domain/query"
	navigationuc "github.com/intavia/visualquery/internal/usecase/navigation"
	"github.com/intavia/visualquery/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vqctl",
		Short:         "Visual query constraint tooling",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPaletteCmd(), newCompileCmd(), newLayoutCmd())
	return root
}

func newPaletteCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the constraints that can be added to a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs := constraint.Definitions()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), defs)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tLABEL\tCOLOR")
			for _, d := range defs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Kind, d.Label, layout.Color(d.ID))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// constraintFile is the YAML form of a query.
type constraintFile struct {
	Constraints []struct {
		ID    string `yaml:"id"`
		Value any    `yaml:"value"`
	} `yaml:"constraints"`
}

func newCompileCmd() *cobra.Command {
	var (
		file    string
		baseURL string
		limit   int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a constraint file into search parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cs, err := loadConstraints(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := query.Compile(cs, limit)
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(out, p)
			case baseURL != "":
				fmt.Fprintln(out, navigationuc.New(baseURL, nil, zap.NewNop()).URL(p))
			default:
				fmt.Fprintln(out, p.Encode())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "constraint YAML file (- for stdin)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "print the full search URL under this front-end base")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the parameters as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadConstraints(path string, stdin io.Reader) ([]constraint.Constraint, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f constraintFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cs := make([]constraint.Constraint, 0, len(f.Constraints))
	for i, entry := range f.Constraints {
		id := constraint.ID(entry.ID)
		def, ok := constraint.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("constraints[%d]: unknown constraint %q", i, entry.ID)
		}
		// YAML values reuse the JSON wire codec.
		raw, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d]: %w", i, err)
		}
		v, err := constraint.DecodeValue(def.Kind, raw)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d] %s: %w", i, id, err)
		}
		c, err := constraint.New(id, false, v)
		if err != nil {
			return nil, fmt.Errorf("constraints[%d] %s: %w", i, id, err)
		}
		cs = append(cs, c)
	}
	return query.FromConstraints(cs).Constraints(), nil
}

func newLayoutCmd() *cobra.Command {
	var width, height float64
	cmd := &cobra.Command{
		Use:   "layout <constraint-id>...",
		Short: "Print the ring segments for the given constraints",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]constraint.ID, len(args))
			for i, a := range args {
				if _, ok := constraint.Lookup(constraint.ID(a)); !ok {
					return fmt.Errorf("unknown constraint %q", a)
				}
				ids[i] = constraint.ID(a)
			}
			if width <= 0 || height <= 0 {
				return fmt.Errorf("width and height must be positive")
			}

			frame := layout.Fit(width, height)
			out := cmd.OutOrStdout()
			for _, s := range frame.Slots(ids) {
				fmt.Fprintf(out, "%s\t%s..%s\t%s\n\t%s\n", s.ID,
					trimFloat(s.StartAngle), trimFloat(s.EndAngle), layout.Color(s.ID), layout.ArcPath(s))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&width, "width", 400, "container width in pixels")
	cmd.Flags().Float64Var(&height, "height", 400, "container height in pixels")
	return cmd
}

func trimFloat(f float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.3f", f), "0")
	return strings.TrimSuffix(s, ".")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
