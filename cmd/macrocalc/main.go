package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/proteinpal/config"
	"github.com/pageza/proteinpal/internal/database"
	"github.com/pageza/proteinpal/internal/nutrition"
	"github.com/pageza/proteinpal/internal/service"
	"github.com/pageza/proteinpal/internal/session"
	"github.com/pageza/proteinpal/internal/tracker"
)

type options struct {
	age        float64
	weight     float64
	weightUnit string
	height     float64
	feet       float64
	inches     float64
	heightUnit string
	sex        string
	activity   string
	goal       string
	apply      bool
	asJSON     bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "macrocalc",
		Short:         "Calculate daily protein, calorie and carb targets",
		Long:          "macrocalc runs the Mifflin-St Jeor macro calculator. With --apply the targets are stored as goals for the most recently logged-in user.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := opts.input(cmd)
			goals := service.NewGoalsService(nil)

			if !opts.apply {
				res, err := goals.Calculate(in)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), res, opts.asJSON)
			}

			res, err := applyLatest(cmd.Context(), in)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res, opts.asJSON)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.age, "age", 0, "age in whole years (10-100)")
	f.Float64Var(&opts.weight, "weight", 0, "body weight")
	f.StringVar(&opts.weightUnit, "weight-unit", string(nutrition.Kilograms), "kg or lbs")
	f.Float64Var(&opts.height, "height", 0, "height in cm")
	f.Float64Var(&opts.feet, "feet", 0, "height feet, with --height-unit ft")
	f.Float64Var(&opts.inches, "inches", 0, "height inches (0-11), with --height-unit ft")
	f.StringVar(&opts.heightUnit, "height-unit", string(nutrition.Centimeters), "cm or ft")
	f.StringVar(&opts.sex, "sex", "", "male or female")
	f.StringVar(&opts.activity, "activity", string(nutrition.Moderate), "sedentary, light, moderate, active or very_active")
	f.StringVar(&opts.goal, "goal", string(nutrition.GoalMaintain), "lose, maintain, gain or recomp")
	f.BoolVar(&opts.apply, "apply", false, "store the targets as the current user's goals")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON")
	return cmd
}

// input only sets fields whose flags were given, so a missing flag is
// reported as an incomplete profile rather than read as zero.
func (o *options) input(cmd *cobra.Command) service.CalculatorInput {
	set := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	return service.CalculatorInput{
		Age:           set("age", o.age),
		Weight:        set("weight", o.weight),
		WeightUnit:    nutrition.WeightUnit(o.weightUnit),
		Height:        set("height", o.height),
		HeightFeet:    set("feet", o.feet),
		HeightInches:  set("inches", o.inches),
		HeightUnit:    nutrition.HeightUnit(o.heightUnit),
		Sex:           o.sex,
		ActivityLevel: o.activity,
		GoalType:      o.goal,
	}
}

func applyLatest(ctx context.Context, in service.CalculatorInput) (*service.CalculationResult, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := tracker.New(cfg.TrackerBaseURL)
	state, err := session.NewManager(session.NewGormStore(db), client, cfg.SessionTTL).RestoreLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("no usable session, log in through the web app first: %w", err)
	}
	return service.NewGoalsService(client).CalculateAndApply(ctx, state.Token, in)
}

func render(w io.Writer, res *service.CalculationResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	t := res.Targets
	fmt.Fprintf(w, "Weight:   %.1f kg\n", res.Profile.WeightKg)
	fmt.Fprintf(w, "Height:   %.1f cm\n", res.Profile.HeightCm)
	fmt.Fprintf(w, "BMR:      %d kcal\n", t.BMR)
	fmt.Fprintf(w, "TDEE:     %d kcal\n", t.TDEE)
	fmt.Fprintf(w, "Calories: %d kcal\n", t.CalorieGoal)
	fmt.Fprintf(w, "Protein:  %d g\n", t.ProteinGoalG)
	fmt.Fprintf(w, "Carbs:    %d g\n", t.CarbGoalG)
	if res.Applied {
		fmt.Fprintln(w, "Saved as your daily goals.")
	}
	return nil
}
