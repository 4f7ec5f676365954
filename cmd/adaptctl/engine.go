package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adaptiq/adaptiq-backend/internal/domain/accessibility"
	"github.com/adaptiq/adaptiq-backend/internal/domain/learner"
	"github.com/adaptiq/adaptiq-backend/internal/modules/adaptation"
	"github.com/adaptiq/adaptiq-backend/internal/modules/catalog"
)

// learnerFile is the on-disk shape read by -learner. Settings use the API's
// field names and override the defaults.
type learnerFile struct {
	Profile  learner.Profile `yaml:"profile"`
	Settings map[string]any  `yaml:"settings"`
}

func loadLearner(path string) (learner.Profile, accessibility.Settings, error) {
	st := accessibility.Defaults()
	if path == "" {
		return learner.Profile{LearningPreferences: learner.DefaultPreferences()}, st, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return learner.Profile{}, st, err
	}
	var f learnerFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return learner.Profile{}, st, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Settings) > 0 {
		patch := make(map[string]json.RawMessage, len(f.Settings))
		for k, v := range f.Settings {
			b, err := json.Marshal(v)
			if err != nil {
				return learner.Profile{}, st, fmt.Errorf("setting %q: %w", k, err)
			}
			patch[k] = b
		}
		if st, err = accessibility.Apply(st, patch); err != nil {
			return learner.Profile{}, st, err
		}
	}
	return f.Profile, st, nil
}

type evaluation struct {
	Parameters adaptation.Parameters `json:"parameters"`
	FiredRules []string              `json:"firedRules"`
}

func runEvaluate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	path := fs.String("learner", "", "learner YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, st, err := loadLearner(*path)
	if err != nil {
		return err
	}
	params, fired := adaptation.New().Explain(p, st)
	return writeJSON(out, evaluation{Parameters: params, FiredRules: fired})
}

func runRecommend(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	path := fs.String("learner", "", "learner YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, _, err := loadLearner(*path)
	if err != nil {
		return err
	}
	return writeJSON(out, adaptation.New().Recommend(p))
}

func runAdapt(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("adapt", flag.ContinueOnError)
	path := fs.String("learner", "", "learner YAML file")
	lessonID := fs.String("lesson", "1", "catalog lesson id")
	simplified := fs.Bool("simplified", false, "attach the simplified instructions")
	age := fs.Int("age", 0, "target reader age for the simplified text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, st, err := loadLearner(*path)
	if err != nil {
		return err
	}
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	lesson, err := cat.Lesson(*lessonID)
	if err != nil {
		return err
	}

	engine := adaptation.New()
	params := engine.Evaluate(p, st)
	adapted := engine.Transform(lesson, params, p)
	if *simplified {
		processed, err := engine.Process(lesson.Instructions, adaptation.ProcessOptions{
			TargetAge:       *age,
			ComplexityLevel: adaptation.ReadingLevelFor(params.TextComplexity),
		})
		if err != nil {
			return err
		}
		adapted.AlternativeFormats.Simplified = &processed
	}
	return writeJSON(out, adapted)
}
