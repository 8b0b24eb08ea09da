package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"catalogue-service/internal/annotate"
	"catalogue-service/internal/catalog"

	"github.com/spf13/cobra"
)

var errValidation = errors.New("catalogue has issues")

type options struct {
	file   string
	asJSON bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect the fire detection product catalogue",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "catalogue YAML file (default is the embedded catalogue)")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newBrandsCmd(opts),
		newProductsCmd(opts),
		newProductCmd(opts),
		newAnnotateCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

func (o *options) load() (*catalog.Catalog, error) {
	if o.file == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(o.file)
}

func newBrandsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List brands and their systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.load()
			if err != nil {
				return err
			}
			brands := cat.ListBrands()
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), brands)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BRAND\tSYSTEM\tNAME\tICON")
			for _, b := range brands {
				for _, s := range b.Systems {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, s.ID, s.Name, catalog.IconFor(s.Icon))
				}
			}
			return tw.Flush()
		},
	}
}

func newProductsCmd(opts *options) *cobra.Command {
	var brandID, systemID string
	var filter catalog.Filter

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products of a brand/system pair grouped by subcategory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.load()
			if err != nil {
				return err
			}
			if _, ok := cat.System(brandID, systemID); !ok {
				return fmt.Errorf("system %s/%s not found", brandID, systemID)
			}

			groups := catalog.GroupBySubcategory(
				catalog.Search(cat.ProductsByBrandAndSystem(brandID, systemID), filter))
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), groups)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SUBCATEGORY\tID\tSKU\tNAME")
			for _, g := range groups {
				for _, p := range g.Products {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Subcategory, p.ID, p.SKU, p.Name)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&brandID, "brand", "", "brand id")
	cmd.Flags().StringVar(&systemID, "system", "", "system id")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "case-insensitive name or SKU search")
	cmd.Flags().StringVar(&filter.Subcategory, "subcategory", "", "only this subcategory")
	_ = cmd.MarkFlagRequired("brand")
	_ = cmd.MarkFlagRequired("system")
	return cmd
}

func newProductCmd(opts *options) *cobra.Command {
	var specName string

	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product with its related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.load()
			if err != nil {
				return err
			}
			p, ok := cat.ProductByID(args[0])
			if !ok {
				return fmt.Errorf("product %s not found", args[0])
			}
			if specName != "" {
				value, ok := p.Specifications.Get(specName)
				if !ok {
					return fmt.Errorf("product %s has no specification %q", p.ID, specName)
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			related := cat.RelatedProducts(p.ID)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"product": p,
					"related": related,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", p.SKU, p.Name)
			fmt.Fprintf(out, "%s / %s / %s\n\n", p.BrandID, p.SystemID, p.Subcategory)
			fmt.Fprintln(out, highlight(annotate.Annotate(p.Description)))
			for _, f := range p.Features {
				fmt.Fprintf(out, "  - %s\n", highlight(annotate.Annotate(f)))
			}
			if len(p.Specifications) > 0 {
				fmt.Fprintln(out)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, s := range p.Specifications {
					fmt.Fprintf(tw, "  %s\t%s\n", s.Name, s.Value)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if len(related) > 0 {
				fmt.Fprintln(out, "\nRelated:")
				for _, r := range related {
					fmt.Fprintf(out, "  %s  %s\n", r.ID, r.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&specName, "spec", "", "print only the value of this specification row")
	return cmd
}

func newAnnotateCmd(opts *options) *cobra.Command {
	var tokens bool

	cmd := &cobra.Command{
		Use:   "annotate <text>",
		Short: "Mark certifications and product codes in text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokens {
				return classifyTokens(cmd.OutOrStdout(), args, opts.asJSON)
			}

			spans := annotate.Annotate(strings.Join(args, " "))
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), spans)
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlight(spans))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tokens, "token", false, "classify each argument as a whole token")
	return cmd
}

// classifyTokens reports the kind of each argument taken as one token
func classifyTokens(w io.Writer, tokens []string, asJSON bool) error {
	if asJSON {
		kinds := make(map[string]annotate.Kind, len(tokens))
		for _, tok := range tokens {
			kinds[tok] = annotate.Classify(tok)
		}
		return writeJSON(w, kinds)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%s\t%s\n", tok, annotate.Classify(tok))
	}
	return tw.Flush()
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalogue for dangling references and unknown tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.load()
			if err != nil {
				return err
			}
			issues := cat.Validate()
			if opts.asJSON {
				if err := writeJSON(cmd.OutOrStdout(), issues); err != nil {
					return err
				}
			} else {
				for _, issue := range issues {
					fmt.Fprintln(cmd.OutOrStdout(), issue.String())
				}
			}
			if len(issues) > 0 {
				return fmt.Errorf("%w: %d found", errValidation, len(issues))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// highlight renders certifications as [X] and codes as <X>
func highlight(spans []annotate.Span) string {
	var b strings.Builder
	for _, s := range spans {
		switch s.Kind {
		case annotate.KindCertification:
			b.WriteString("[" + s.Label + "]")
		case annotate.KindCode:
			b.WriteString("<" + s.Label + ">")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
