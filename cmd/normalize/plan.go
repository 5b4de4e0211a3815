package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cohort/internal/config"
	"github.com/JonMunkholm/cohort/internal/pipeline"
	"github.com/JonMunkholm/cohort/internal/schema"
)

func newPlanCmd(cfg *config.Config) *cobra.Command {
	var (
		planFile string
		asYAML   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate and print the relationship steps in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("plan") {
				cfg.Pipeline.PlanFile = planFile
			}
			plan, err := resolvePlan(cfg.Pipeline.PlanFile)
			if err != nil {
				return err
			}

			var inputs []string
			for _, in := range schema.Default().Inputs() {
				inputs = append(inputs, in.Name)
			}
			if err := plan.Validate(inputs); err != nil {
				return err
			}

			if asYAML {
				data, err := pipeline.MarshalPlan(plan)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			writePlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "YAML plan replacing the built-in one (default: PIPELINE_PLAN_FILE)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the plan as a YAML document")

	return cmd
}

func writePlan(out io.Writer, plan *pipeline.Plan) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSTEP\tLEFT\tRIGHT\tMATCH ON\tRELATION\tWRITES")
	for i, s := range plan.Steps {
		var match, relation, writes string
		switch s.Kind {
		case pipeline.KindJunction:
			junction, dimension := s.Junction.Names()
			match = strings.Join(s.Junction.Identity.Columns(), ",")
			relation = "many-to-many"
			writes = junction + ", " + dimension
		default:
			match = strings.Join(s.Link.Identity.Columns(), ",")
			relation = string(s.Link.Cardinality)
			holder := s.Right
			if s.Link.HoldsOnLeft() {
				holder = s.Left
			}
			writes = holder + "." + s.Link.FKColumn
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, s.Name, s.Left, s.Right, match, relation, writes)
	}
	w.Flush()
}
